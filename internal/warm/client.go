package warm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"radiomon/internal/models"
	"radiomon/internal/providers"
	"radiomon/internal/structures"
)

const userAgent = "radiomon/1.0"

// PlaySource is the external play provider contract. PlaysForArtist returns
// every play detected for the artist inside the [from, until] date window.
type PlaySource interface {
	PlaysForArtist(ctx context.Context, artistName string, from, until time.Time) ([]models.RawPlay, error)
	Ping(ctx context.Context) error
}

// Client talks to the WARM public API. Requests carry an explicit timeout
// and run through a circuit breaker so one dead upstream cannot stall the
// poll loop indefinitely.
type Client struct {
	config  *structures.Config
	logger  providers.Logger
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]models.RawPlay]
}

func NewClient(conf *structures.Config, logger providers.Logger) PlaySource {
	timeout := conf.Warm.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		config: conf,
		logger: logger,
		http:   &http.Client{Timeout: timeout},
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]models.RawPlay](gobreaker.Settings{
		Name:     "warm-api",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf(providers.TypeMonitor, "Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return c
}

func (c *Client) PlaysForArtist(ctx context.Context, artistName string, from, until time.Time) ([]models.RawPlay, error) {
	return c.breaker.Execute(func() ([]models.RawPlay, error) {
		return c.fetchPlays(ctx, artistName, from, until)
	})
}

func (c *Client) fetchPlays(ctx context.Context, artistName string, from, until time.Time) ([]models.RawPlay, error) {
	params := url.Values{}
	params.Set("artistName", artistName)
	params.Set("countryCode", c.countryCode())
	if !from.IsZero() {
		params.Set("fromDate", from.Format("20060102"))
	}
	if !until.IsZero() {
		params.Set("untilDate", until.Format("20060102"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Warm.BaseURL+"/plays?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if token := c.config.Warm.Token; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch plays for %s: %w", artistName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("play source returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read plays response: %w", err)
	}

	plays, total, err := decodePlaysEnvelope(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debugf(providers.TypeMonitor, "Found %d plays for %s", total, artistName)
	return plays, nil
}

// Ping probes reachability of the play source. Any HTTP response counts as
// reachable; only transport-level failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Warm.BaseURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("play source unreachable: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

func (c *Client) countryCode() string {
	if cc := c.config.Warm.CountryCode; cc != "" {
		return cc
	}
	return "GB"
}

// playsEnvelope covers the paginated response shapes the API has been seen
// to return. The bare-array form is tried first, then the envelope fields in
// their historical order of preference.
type playsEnvelope struct {
	CurrentPagesEntities  []models.RawPlay `json:"currentPagesEntities"`
	Plays                 []models.RawPlay `json:"plays"`
	Data                  []models.RawPlay `json:"data"`
	TotalNumberOfEntities int              `json:"totalNumberOfEntities"`
	Total                 int              `json:"total"`
}

func decodePlaysEnvelope(body []byte) ([]models.RawPlay, int, error) {
	var bare []models.RawPlay
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, len(bare), nil
	}

	var env playsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, fmt.Errorf("decode plays response: %w", err)
	}

	plays := env.CurrentPagesEntities
	if plays == nil {
		plays = env.Plays
	}
	if plays == nil {
		plays = env.Data
	}

	total := env.TotalNumberOfEntities
	if total == 0 {
		total = env.Total
	}
	if total == 0 {
		total = len(plays)
	}
	return plays, total, nil
}
