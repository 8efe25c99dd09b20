package notify

import (
	"context"
	"log/slog"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// NoOpNotifier implements Notifier by logging discarded batches. It is used
// when no notification backend is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards batches with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// Notify logs and discards a batch.
func (n *NoOpNotifier) Notify(_ context.Context, recipient string, items []domain.AlertItem) error {
	n.log.Debug("notification discarded (no backend configured)",
		"recipient", recipient,
		"count", len(items),
	)
	return nil
}
