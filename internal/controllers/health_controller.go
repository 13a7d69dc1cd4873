package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"radiomon/internal/services"
)

type HealthController struct {
	service   services.MonitorServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status          string  `json:"status"`
	Uptime          string  `json:"uptime"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	Monitoring      bool    `json:"monitoring"`
	ActiveCampaigns int     `json:"active_campaigns"`
	PlaySource      string  `json:"play_source"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sourceProbeTimeout)
	defer cancel()
	sourceErr := hc.service.SourceHealth(ctx)

	status := hc.service.MonitoringStatus()
	uptime := time.Since(hc.startTime)

	resp := healthResponse{
		Status:          overallHealth(sourceErr, status.Monitoring, status.ActiveCampaigns),
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		Monitoring:      status.Monitoring,
		ActiveCampaigns: status.ActiveCampaigns,
		PlaySource:      sourceStatus(sourceErr),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// overallHealth folds the source probe and poll loop state into one value.
// The source being down only degrades health while campaigns actually need
// it; an idle daemon with a dead upstream is still unreachable, not broken.
func overallHealth(sourceErr error, monitoring bool, activeCampaigns int) string {
	if sourceErr != nil && activeCampaigns == 0 && !monitoring {
		return "unreachable"
	}
	if sourceErr != nil || (!monitoring && activeCampaigns > 0) {
		return "degraded"
	}
	return "healthy"
}

func sourceStatus(err error) string {
	if err != nil {
		return "unreachable"
	}
	return "reachable"
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.MonitorServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
	}
}
