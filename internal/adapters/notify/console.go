package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// Console implementa ports.Notifier escribiendo a stdout.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// CycleSummary imprime el resultado de un ciclo. Los ciclos sin
// oportunidades van en una sola línea; los demás llevan tabla.
func (c *Console) CycleSummary(_ context.Context, s domain.CycleSummary) error {
	now := s.StartedAt.Format("15:04:05")
	elapsed := s.Duration.Round(time.Millisecond)

	if len(s.Opportunities) == 0 {
		fmt.Fprintf(c.out, "[%s] %d pairs scanned, no opportunities (%s)\n",
			now, s.PairsScanned, elapsed)
		return nil
	}

	fmt.Fprintf(c.out, "\n[%s] %d pairs → %d opportunities, %d confirmed (%s)\n",
		now, s.PairsScanned, len(s.Opportunities), s.ConfirmedCount(), elapsed)

	c.printTable(s)
	return nil
}

// Alert imprime una alerta operacional.
func (c *Console) Alert(_ context.Context, title, message string) error {
	fmt.Fprintf(c.out, "\n⚠ %s: %s\n", title, message)
	return nil
}

// printTable imprime la tabla de submissions del ciclo.
func (c *Console) printTable(s domain.CycleSummary) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Pair", "Route", "Probe SOL", "Net SOL", "Status", "Bundle", "Reason")

	for i, sub := range s.Submissions {
		opp := sub.Opportunity
		table.Append(
			fmt.Sprintf("%d", i+1),
			opp.Pair.Symbol,
			opp.Route(),
			domain.SOL(opp.Probe).StringFixed(4),
			opp.NetProfitSOL().StringFixed(9),
			string(sub.Status),
			truncate(sub.BundleID, 12),
			truncate(sub.Reason, 40),
		)
	}

	table.Render()
}

// truncate recorta s a max caracteres añadiendo "...".
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
