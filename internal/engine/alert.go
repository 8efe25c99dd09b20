package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/donaldgifford/slash/internal/metrics"
	"github.com/donaldgifford/slash/internal/store"
	"github.com/donaldgifford/slash/pkg/price"
	domain "github.com/donaldgifford/slash/pkg/types"
)

// ErrUserNotFound is returned when alerts are requested for an unknown user.
var ErrUserNotFound = errors.New("user not found")

// AlertReport describes one user's alert evaluation. A failed delivery is
// recorded in DeliveryError and does not fail the evaluation.
type AlertReport struct {
	Username      string             `json:"username"`
	Recipient     string             `json:"recipient"`
	Items         []domain.AlertItem `json:"items"`
	Delivered     bool               `json:"delivered"`
	DeliveryError string             `json:"delivery_error,omitempty"`
}

// PassSummary totals an all-users alert pass.
type PassSummary struct {
	Users     int           `json:"users"`
	Failed    int           `json:"failed"`
	Alerts    int           `json:"alerts"`
	Delivered int           `json:"delivered"`
	Duration  time.Duration `json:"duration"`
}

// Evaluate fetches live results for every wishlist entry from the live
// source and returns the items priced strictly below the entry's reference
// price. Each returned item carries the parsed price in canonical form. A
// failed fetch for one entry is logged and skipped. The result is never nil.
func (eng *Engine) Evaluate(ctx context.Context, entries []domain.WishlistEntry) []domain.AlertItem {
	batch := []domain.AlertItem{}
	if len(entries) == 0 {
		return batch
	}

	sources, err := eng.liveSources.Resolve(string(eng.liveSource))
	if err != nil {
		eng.log.Error("live source unavailable, no entries evaluated",
			"site", eng.liveSource,
			"entries", len(entries),
			"error", err,
		)
		return batch
	}
	live := sources[0]

	for i := range entries {
		entry := &entries[i]

		items, err := live.Fetch(ctx, entry.ProductName)
		if err != nil {
			eng.log.Warn("live price fetch failed, skipping entry",
				"site", live.Name(),
				"product", entry.ProductName,
				"error", err,
			)
			metrics.SourceFetchErrorsTotal.WithLabelValues(string(live.Name())).Inc()
			continue
		}

		for _, item := range items {
			v, ok := price.Parse(item.Price)
			if !ok || v >= entry.ReferencePrice {
				continue
			}
			item.Price = price.Format(v)
			batch = append(batch, domain.AlertItem{
				RawItem:        item,
				ReferencePrice: entry.ReferencePrice,
			})
		}
	}

	return batch
}

// EvaluateAlertsForUser evaluates the user's wishlist and hands the batch to
// the notifier exactly once, even when it is empty.
func (eng *Engine) EvaluateAlertsForUser(ctx context.Context, username string) (*AlertReport, error) {
	ctx, span := eng.tracer.Start(ctx, "engine.EvaluateAlertsForUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.name", username))

	user, err := eng.store.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		span.SetStatus(codes.Error, "user not found")
		return nil, fmt.Errorf("%w: %s: %w", ErrUserNotFound, username, err)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("getting user %s: %w", username, err)
	}

	entries, err := eng.store.FindWishlistEntries(ctx, username)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("finding wishlist entries for %s: %w", username, err)
	}

	batch := eng.Evaluate(ctx, entries)
	metrics.AlertItemsTotal.Add(float64(len(batch)))

	report := &AlertReport{
		Username:  username,
		Recipient: user.Email,
		Items:     batch,
	}

	if err := eng.notifier.Notify(ctx, user.Email, batch); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		span.RecordError(err)
		eng.log.Error("alert delivery failed",
			"user", username,
			"items", len(batch),
			"error", err,
		)
		report.DeliveryError = err.Error()
	} else {
		report.Delivered = true
	}

	span.SetAttributes(
		attribute.Int("alert.entries", len(entries)),
		attribute.Int("alert.items", len(batch)),
		attribute.Bool("alert.delivered", report.Delivered),
	)
	eng.log.Info("alerts evaluated",
		"user", username,
		"entries", len(entries),
		"items", len(batch),
		"delivered", report.Delivered,
	)

	return report, nil
}

// RunAlertPassForAllUsers evaluates alerts for every registered user. A
// failure for one user is logged and counted and the pass continues; only a
// failure to list users is returned.
func (eng *Engine) RunAlertPassForAllUsers(ctx context.Context) (PassSummary, error) {
	start := time.Now()
	defer func() {
		metrics.AlertPassDuration.Observe(time.Since(start).Seconds())
	}()

	users, err := eng.store.ListUsers(ctx)
	if err != nil {
		return PassSummary{}, fmt.Errorf("listing users: %w", err)
	}

	summary := PassSummary{Users: len(users)}
	for i := range users {
		if ctx.Err() != nil {
			summary.Duration = time.Since(start)
			return summary, ctx.Err()
		}

		report, err := eng.EvaluateAlertsForUser(ctx, users[i].Username)
		if err != nil {
			summary.Failed++
			metrics.AlertUserErrorsTotal.Inc()
			eng.log.Error("alert evaluation failed", "user", users[i].Username, "error", err)
			continue
		}

		summary.Alerts += len(report.Items)
		if report.Delivered {
			summary.Delivered++
		}
	}

	summary.Duration = time.Since(start)
	eng.log.Info("alert pass complete",
		"users", summary.Users,
		"failed", summary.Failed,
		"alerts", summary.Alerts,
		"duration", summary.Duration,
	)

	return summary, nil
}
