package models

import (
	"sync"
	"time"
)

// CampaignConfig holds the monitoring settings and running counters for one
// campaign. TotalPlays and NewPlays only ever grow within a process
// lifetime; stopping and restarting the same campaign id does not reset
// them.
type CampaignConfig struct {
	CampaignID     string        `json:"campaignId"`
	ArtistName     string        `json:"artistName"`
	StartDate      string        `json:"startDate"`
	Interval       time.Duration `json:"checkInterval"`
	AlertThreshold int           `json:"alertThreshold"`
	Active         bool          `json:"monitoring"`
	LastCheck      time.Time     `json:"lastCheck"`
	TotalPlays     int           `json:"totalPlays"`
	NewPlays       int           `json:"newPlays"`
}

// CampaignRegistry is the single source of truth for monitored campaigns.
// Registration order is preserved so ticks process campaigns in a stable,
// deterministic order. All accessors return copies; mutation goes through
// Register, Deactivate and ApplyCheck only.
type CampaignRegistry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*CampaignConfig
}

func NewCampaignRegistry() *CampaignRegistry {
	return &CampaignRegistry{
		byID: make(map[string]*CampaignConfig),
	}
}

// Register adds or replaces a campaign config. Re-registering an existing id
// overwrites its settings (last write wins, no error) but keeps the counters
// already accumulated.
func (r *CampaignRegistry) Register(cfg CampaignConfig) CampaignConfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[cfg.CampaignID]
	if !ok {
		c := cfg
		c.Active = true
		r.byID[cfg.CampaignID] = &c
		r.order = append(r.order, cfg.CampaignID)
		return c
	}

	existing.ArtistName = cfg.ArtistName
	existing.StartDate = cfg.StartDate
	existing.Interval = cfg.Interval
	existing.AlertThreshold = cfg.AlertThreshold
	existing.Active = true
	return *existing
}

// Deactivate flags a campaign as no longer monitored. History and counters
// are retained. Unknown or already stopped ids are a no-op.
func (r *CampaignRegistry) Deactivate(campaignID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.byID[campaignID]; ok {
		cfg.Active = false
	}
}

func (r *CampaignRegistry) Get(campaignID string) (CampaignConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.byID[campaignID]
	if !ok {
		return CampaignConfig{}, false
	}
	return *cfg, true
}

// All returns every registered campaign, active or not, in registration order.
func (r *CampaignRegistry) All() []CampaignConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CampaignConfig, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

// Active returns the campaigns with monitoring enabled, in registration order.
func (r *CampaignRegistry) Active() []CampaignConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []CampaignConfig
	for _, id := range r.order {
		if cfg := r.byID[id]; cfg.Active {
			out = append(out, *cfg)
		}
	}
	return out
}

func (r *CampaignRegistry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, cfg := range r.byID {
		if cfg.Active {
			n++
		}
	}
	return n
}

// ApplyCheck records a completed check: advances the last-check timestamp
// and adds this tick's newly detected plays to both counters.
func (r *CampaignRegistry) ApplyCheck(campaignID string, newPlays int, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.byID[campaignID]
	if !ok {
		return
	}
	cfg.LastCheck = at
	cfg.TotalPlays += newPlays
	cfg.NewPlays += newPlays
}
