// Package notify defines the notification interface and implementations
// for price-drop alert delivery.
package notify

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/donaldgifford/slash/pkg/types"
)

// Notifier delivers one alert batch to one recipient. An empty batch is a
// valid batch; implementations decide how to present it.
type Notifier interface {
	Notify(ctx context.Context, recipient string, items []domain.AlertItem) error
}

// Multi fans a batch out to several notifiers. Every notifier is attempted;
// failures are joined.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, recipient string, items []domain.AlertItem) error {
	var errs []error
	for i, n := range m {
		if err := n.Notify(ctx, recipient, items); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d (%T): %w", i, n, err))
		}
	}
	return errors.Join(errs...)
}

// SkipEmpty wraps a notifier so that empty batches are dropped instead of
// delivered.
func SkipEmpty(next Notifier) Notifier {
	return skipEmpty{next: next}
}

type skipEmpty struct {
	next Notifier
}

func (s skipEmpty) Notify(ctx context.Context, recipient string, items []domain.AlertItem) error {
	if len(items) == 0 {
		return nil
	}
	return s.next.Notify(ctx, recipient, items)
}
