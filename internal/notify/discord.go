package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	colorGreen  = 0x2ECC71 // profit $20+
	colorYellow = 0xF1C40F // profit $10-20
	colorOrange = 0xE67E22 // anything below
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
	Embeds []discordEmbed `json:"embeds"`
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

// SendAlert sends a single alert as a Discord embed.
func (d *DiscordNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	embed := buildEmbed(alert)
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{embed},
	}
	return d.post(ctx, payload)
}

// SendBatchAlert sends multiple alerts as a single Discord message.
func (d *DiscordNotifier) SendBatchAlert(
	ctx context.Context,
	alerts []AlertPayload,
	watchName string,
) error {
	embeds := make([]discordEmbed, 0, len(alerts))

	// Discord allows max 10 embeds per message.
	limit := min(len(alerts), 10)

	for i := range limit {
		embeds = append(embeds, buildEmbed(&alerts[i]))
	}

	if len(alerts) > 10 {
		embeds = append(embeds, discordEmbed{
			Title:       fmt.Sprintf("... and %d more opportunities for %s", len(alerts)-10, watchName),
			Color:       colorYellow,
			Description: "Run a manual scan for the full list.",
		})
	}

	payload := discordWebhookPayload{Embeds: embeds}
	return d.post(ctx, payload)
}

func buildEmbed(alert *AlertPayload) discordEmbed {
	opp := &alert.Opportunity
	econ := &opp.Economics

	fields := []discordEmbedField{
		{Name: "Buy", Value: fmt.Sprintf("$%.2f + $%.2f ship", econ.BuyPrice, econ.BuyShipping), Inline: true},
		{Name: "Est. Net Sale", Value: fmt.Sprintf("$%.2f", econ.NetSale), Inline: true},
		{Name: "Profit", Value: fmt.Sprintf("$%.2f", econ.Profit), Inline: true},
		{Name: "Confidence", Value: fmt.Sprintf("%.0f%%", opp.Match.Confidence*100), Inline: true},
	}
	if econ.ROI != nil {
		fields = append(fields, discordEmbedField{
			Name: "ROI", Value: fmt.Sprintf("%.1f%%", *econ.ROI*100), Inline: true,
		})
	}
	if opp.Discount > 0 {
		fields = append(fields, discordEmbedField{
			Name: "Discount", Value: fmt.Sprintf("%.0f%% below median", opp.Discount*100), Inline: true,
		})
	}

	embed := discordEmbed{
		Title:       fmt.Sprintf("Flip Alert: %s", opp.Listing.Title),
		URL:         opp.Listing.ItemURL,
		Color:       profitColor(econ.Profit),
		Description: fmt.Sprintf("%s watch %q (score %.2f)", alert.Game, alert.WatchName, opp.Score),
		Fields:      fields,
	}

	if opp.Listing.ImageURL != "" {
		embed.Thumbnail = &discordThumbnail{URL: opp.Listing.ImageURL}
	}

	return embed
}

func profitColor(profit float64) int {
	switch {
	case profit >= 20:
		return colorGreen
	case profit >= 10:
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
