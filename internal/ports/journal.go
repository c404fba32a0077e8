package ports

import (
	"context"
	"time"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// Journal persiste el historial de ciclos y envíos para análisis posterior.
type Journal interface {
	// SaveCycle persiste el resumen agregado de un ciclo de escaneo.
	SaveCycle(ctx context.Context, summary domain.CycleSummary) error

	// SaveSubmission persiste el resultado terminal de un envío de bundle.
	SaveSubmission(ctx context.Context, result domain.SubmissionResult) error

	// RecentSubmissions devuelve los envíos registrados en el rango dado,
	// más recientes primero.
	RecentSubmissions(ctx context.Context, from, to time.Time) ([]domain.SubmissionResult, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
