package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/ports"
)

// Fanout dispatches every notification to all configured sinks. One sink's
// failure never blocks another; errors are collected and returned combined.
type Fanout struct {
	sinks []ports.Notifier
}

// NewFanout creates a Fanout over the given sinks.
func NewFanout(sinks ...ports.Notifier) *Fanout {
	return &Fanout{sinks: sinks}
}

// CycleSummary forwards the summary to every sink.
func (f *Fanout) CycleSummary(ctx context.Context, s domain.CycleSummary) error {
	return f.each(func(n ports.Notifier) error { return n.CycleSummary(ctx, s) })
}

// Alert forwards the alert to every sink.
func (f *Fanout) Alert(ctx context.Context, title, message string) error {
	return f.each(func(n ports.Notifier) error { return n.Alert(ctx, title, message) })
}

func (f *Fanout) each(send func(ports.Notifier) error) error {
	var errs []string
	for _, sink := range f.sinks {
		if err := send(sink); err != nil {
			slog.Error("notifier sink failed", "err", err)
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sink(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
