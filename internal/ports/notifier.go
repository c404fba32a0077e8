package ports

import (
	"context"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// Notifier presenta los resultados de cada ciclo al usuario.
type Notifier interface {
	// CycleSummary muestra el resumen de un ciclo: pares escaneados,
	// oportunidades y resultado de cada envío. En la implementación de
	// consola, imprime una tabla formateada.
	CycleSummary(ctx context.Context, summary domain.CycleSummary) error

	// Alert entrega un evento de alta prioridad legible por humanos,
	// como un aviso de salud del proveedor de snapshots.
	Alert(ctx context.Context, title, message string) error
}
