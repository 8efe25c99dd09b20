package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/slash/internal/metrics"
	domain "github.com/donaldgifford/slash/pkg/types"
)

const (
	colorGreen  = 0x2ECC71 // 25%+ below reference
	colorYellow = 0xF1C40F // 10-25% below reference
	colorOrange = 0xE67E22 // under 10% below reference
	colorGray   = 0x95A5A6 // no drops

	maxEmbeds = 10
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Thumbnail   *discordThumbnail   `json:"thumbnail,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordThumbnail struct {
	URL string `json:"url"`
}

// Notify sends the batch as a single Discord message with one embed per item.
func (d *DiscordNotifier) Notify(
	ctx context.Context,
	recipient string,
	items []domain.AlertItem,
) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.WithLabelValues("discord").Observe(time.Since(start).Seconds())
	}()

	payload := discordWebhookPayload{
		Content: fmt.Sprintf("%s for %s", subject(items), recipient),
	}

	if len(items) == 0 {
		payload.Embeds = []discordEmbed{{
			Title:       subjectNoDrops,
			Color:       colorGray,
			Description: "None of the tracked products are below their wishlist price.",
		}}
		return d.post(ctx, payload)
	}

	limit := min(len(items), maxEmbeds)
	payload.Embeds = make([]discordEmbed, 0, limit+1)
	for i := range limit {
		payload.Embeds = append(payload.Embeds, buildEmbed(&items[i]))
	}

	if len(items) > maxEmbeds {
		payload.Embeds = append(payload.Embeds, discordEmbed{
			Title:       fmt.Sprintf("... and %d more price drops", len(items)-maxEmbeds),
			Color:       colorYellow,
			Description: "Check your wishlist for the full list.",
		})
	}

	return d.post(ctx, payload)
}

func buildEmbed(item *domain.AlertItem) discordEmbed {
	embed := discordEmbed{
		Title: fmt.Sprintf("Price Drop: %s", item.Title),
		Color: discountColor(discountPct(item)),
		Fields: []discordEmbedField{
			{Name: "Price", Value: livePrice(item), Inline: true},
			{Name: "Was", Value: usd(item.ReferencePrice), Inline: true},
			{Name: "Site", Value: item.SiteName, Inline: true},
		},
	}

	if hasLink(item.Link) {
		embed.URL = item.Link
	}
	if hasLink(item.ImageLink) {
		embed.Thumbnail = &discordThumbnail{URL: item.ImageLink}
	}

	return embed
}

func discountColor(pct float64) int {
	switch {
	case pct >= 25:
		return colorGreen
	case pct >= 10:
		return colorYellow
	default:
		return colorOrange
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
