package ports

import (
	"context"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// BundleSubmitter envía bundles atómicos al canal de ejecución y espera
// el resultado terminal.
type BundleSubmitter interface {
	// Submit firma, envía y espera confirmación del bundle. Devuelve el
	// identificador confirmado, o error con la razón del rechazo o del
	// timeout. El contexto DEBE llevar deadline: nunca se espera sin
	// límite a un resultado de confirmación.
	Submit(ctx context.Context, bundle domain.Bundle) (string, error)
}
