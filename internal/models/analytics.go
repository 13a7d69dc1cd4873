package models

import (
	"sort"
	"sync"
	"time"
)

// TimelineCap bounds the global recent-activity timeline. When exceeded the
// oldest entries are dropped (sliding window, not sampling).
const TimelineCap = 1000

type TimelineEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	CampaignID string    `json:"campaignId"`
	ArtistName string    `json:"artistName"`
	Station    string    `json:"station"`
	Time       string    `json:"time"`
	Date       string    `json:"date"`
}

type StationCount struct {
	Station string `json:"station"`
	Plays   int    `json:"plays"`
}

// Analytics keeps process-lifetime rollups across all campaigns: total play
// count, per-station counts and the capped global timeline. Restored history
// does not feed these; only plays detected by this process do.
type Analytics struct {
	mu           sync.RWMutex
	totalPlays   int
	stationOrder []string
	stationPlays map[string]int
	timeline     []TimelineEntry
}

func NewAnalytics() *Analytics {
	return &Analytics{
		stationPlays: make(map[string]int),
	}
}

// Record folds one alerting tick's new plays into the rollups.
func (a *Analytics) Record(cfg CampaignConfig, plays []*PlayRecord, at time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, p := range plays {
		a.totalPlays++
		if _, ok := a.stationPlays[p.Station]; !ok {
			a.stationOrder = append(a.stationOrder, p.Station)
		}
		a.stationPlays[p.Station]++

		a.timeline = append(a.timeline, TimelineEntry{
			Timestamp:  at,
			CampaignID: cfg.CampaignID,
			ArtistName: cfg.ArtistName,
			Station:    p.Station,
			Time:       p.Time,
			Date:       p.Date,
		})
	}

	if overflow := len(a.timeline) - TimelineCap; overflow > 0 {
		a.timeline = append(a.timeline[:0:0], a.timeline[overflow:]...)
	}
}

func (a *Analytics) TotalPlays() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.totalPlays
}

func (a *Analytics) TimelineLen() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.timeline)
}

// TopStations ranks stations by play count descending. Ties keep first-seen
// order (stable sort). n <= 0 returns every station.
func (a *Analytics) TopStations(n int) []StationCount {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]StationCount, 0, len(a.stationOrder))
	for _, station := range a.stationOrder {
		out = append(out, StationCount{Station: station, Plays: a.stationPlays[station]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Plays > out[j].Plays
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// RecentPlays returns the newest n timeline entries in original order.
func (a *Analytics) RecentPlays(n int) []TimelineEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if n <= 0 || n > len(a.timeline) {
		n = len(a.timeline)
	}
	out := make([]TimelineEntry, n)
	copy(out, a.timeline[len(a.timeline)-n:])
	return out
}

// AveragePlaysPerCampaign divides the process-lifetime play total by the
// number of registered campaigns, guarding the zero-campaign case.
func (a *Analytics) AveragePlaysPerCampaign(campaigns int) float64 {
	if campaigns == 0 {
		return 0
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.totalPlays) / float64(campaigns)
}
