package controllers

import (
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"radiomon/internal/providers"
	"radiomon/internal/services"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const sourceProbeTimeout = 5 * time.Second

// DashboardController serves the monitoring dashboard page and its JSON
// endpoints. Reads go through the response cache; the underlying stores are
// only mutated by the tick handler, so every read observes a fully
// committed state.
type DashboardController struct {
	logger  providers.Logger
	service services.MonitorServiceInterface
	cache   providers.CacheProviderInterface
}

func NewDashboardController(logger providers.Logger, service services.MonitorServiceInterface, cache providers.CacheProviderInterface) *DashboardController {
	return &DashboardController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func (dc *DashboardController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := dc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	dc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

type statusResponse struct {
	Monitoring  any       `json:"monitoring"`
	WarmAPI     string    `json:"warmApi"`
	LastChecked time.Time `json:"lastChecked"`
}

func (dc *DashboardController) GetStatus(w http.ResponseWriter, r *http.Request) {
	dc.serveFromCacheOrCompute(w, "status", func() (any, error) {
		ctx, cancel := context.WithTimeout(r.Context(), sourceProbeTimeout)
		defer cancel()

		sourceStatus := "healthy"
		if err := dc.service.SourceHealth(ctx); err != nil {
			sourceStatus = "unreachable"
		}

		return statusResponse{
			Monitoring:  dc.service.MonitoringStatus(),
			WarmAPI:     sourceStatus,
			LastChecked: time.Now().UTC(),
		}, nil
	})
}

func (dc *DashboardController) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	dc.serveFromCacheOrCompute(w, "analytics", func() (any, error) {
		return dc.service.OverallAnalytics(), nil
	})
}

func (dc *DashboardController) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	dc.serveFromCacheOrCompute(w, "campaigns", func() (any, error) {
		return dc.service.ListCampaigns(), nil
	})
}

func (dc *DashboardController) GetPlays(w http.ResponseWriter, r *http.Request) {
	dc.serveFromCacheOrCompute(w, "plays", func() (any, error) {
		return dc.service.RecentPlays(10), nil
	})
}

type startMonitorRequest struct {
	CampaignID     string `json:"campaignId"`
	ArtistName     string `json:"artistName"`
	StartDate      string `json:"startDate"`
	CheckInterval  string `json:"checkInterval"`
	AlertThreshold int    `json:"alertThreshold"`
}

func (dc *DashboardController) StartMonitor(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload startMonitorRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.CampaignID == "" || payload.ArtistName == "" {
		http.Error(w, "campaignId and artistName are required", http.StatusBadRequest)
		return
	}

	opts := services.MonitorOptions{
		StartDate:      payload.StartDate,
		AlertThreshold: payload.AlertThreshold,
	}
	if payload.CheckInterval != "" {
		interval, err := time.ParseDuration(payload.CheckInterval)
		if err != nil {
			http.Error(w, "invalid checkInterval", http.StatusBadRequest)
			return
		}
		opts.Interval = interval
	}

	cfg := dc.service.StartMonitoring(payload.CampaignID, payload.ArtistName, opts)

	gson, err := json.Marshal(cfg)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(gson)
}

type stopMonitorRequest struct {
	CampaignID string `json:"campaignId"`
}

func (dc *DashboardController) StopMonitor(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload stopMonitorRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.CampaignID == "" {
		http.Error(w, "campaignId is required", http.StatusBadRequest)
		return
	}

	dc.service.StopMonitoring(payload.CampaignID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"stopped","campaignId":"` + payload.CampaignID + `"}`))
}

// Dashboard serves the HTML monitoring page. The page polls the JSON
// endpoints every 30 seconds.
func (dc *DashboardController) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dashboardHTML))
}
