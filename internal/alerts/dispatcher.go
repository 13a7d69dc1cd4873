package alerts

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"radiomon/internal/models"
	"radiomon/internal/providers"
	"radiomon/internal/structures"
)

// AlertCallback is invoked with the campaign's updated config and the plays
// detected in the triggering tick.
type AlertCallback func(cfg models.CampaignConfig, newPlays []*models.PlayRecord)

type DispatcherInterface interface {
	Dispatch(cfg models.CampaignConfig, newPlays []*models.PlayRecord)
	AddAlertCallback(fn AlertCallback)
}

// Dispatcher fans new-play alerts out to the console, an optional webhook,
// an optional email channel and any registered callbacks. By the time
// Dispatch runs the plays are already persisted, so delivery failures are
// logged and never propagated: a lost notification can never cause a
// re-alert.
type Dispatcher struct {
	config  *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	client  *http.Client

	mu        sync.Mutex
	callbacks []AlertCallback
}

func NewDispatcher(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) DispatcherInterface {
	return &Dispatcher{
		config:  conf,
		logger:  logger,
		metrics: metrics,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *Dispatcher) AddAlertCallback(fn AlertCallback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks = append(d.callbacks, fn)
}

func (d *Dispatcher) Dispatch(cfg models.CampaignConfig, newPlays []*models.PlayRecord) {
	msg := FormatAlertMessage(cfg, newPlays)

	d.logger.Infof(providers.TypeAlert, "%s", msg)
	d.metrics.IncAlertsSent("console")

	if url := d.config.Monitor.WebhookURL; url != "" {
		d.sendWebhook(url, msg)
	}

	if addr := d.config.Monitor.AlertEmail; addr != "" {
		// Email delivery goes through an external relay; only the intent is
		// recorded here.
		d.logger.Infof(providers.TypeAlert, "Email alert for %s queued to %s", cfg.CampaignID, addr)
		d.metrics.IncAlertsSent("email")
	}

	d.mu.Lock()
	callbacks := make([]AlertCallback, len(d.callbacks))
	copy(callbacks, d.callbacks)
	d.mu.Unlock()

	for _, cb := range callbacks {
		d.invoke(cb, cfg, newPlays)
	}
}

func (d *Dispatcher) invoke(cb AlertCallback, cfg models.CampaignConfig, newPlays []*models.PlayRecord) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf(providers.TypeAlert, "Alert callback panicked for %s: %v", cfg.CampaignID, r)
		}
	}()
	cb(cfg, newPlays)
}

type webhookPayload struct {
	Text string `json:"text"`
}

func (d *Dispatcher) sendWebhook(url, msg string) {
	payload, err := json.Marshal(webhookPayload{Text: msg})
	if err != nil {
		d.logger.Errorf(providers.TypeAlert, "Webhook payload encode failed: %s", err)
		return
	}

	resp, err := d.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		d.logger.Errorf(providers.TypeAlert, "Webhook delivery failed: %s", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.logger.Warnf(providers.TypeAlert, "Webhook returned status %d", resp.StatusCode)
		return
	}
	d.metrics.IncAlertsSent("webhook")
}

// FormatAlertMessage renders the channel-agnostic alert text. Every channel
// sends the same message.
func FormatAlertMessage(cfg models.CampaignConfig, newPlays []*models.PlayRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎵 NEW PLAYS DETECTED: %s\n", cfg.ArtistName)
	fmt.Fprintf(&b, "Campaign: %s\n", cfg.CampaignID)
	fmt.Fprintf(&b, "New plays: %d\n", len(newPlays))
	fmt.Fprintf(&b, "Total plays: %d", cfg.TotalPlays)
	for _, p := range newPlays {
		fmt.Fprintf(&b, "\n  - %s at %s on %s", p.Station, p.Time, p.Date)
	}
	return b.String()
}
