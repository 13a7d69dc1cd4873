package services

import (
	"context"
	"fmt"
	"time"

	"radiomon/internal/alerts"
	"radiomon/internal/models"
	"radiomon/internal/persistence"
	"radiomon/internal/providers"
	"radiomon/internal/structures"
	"radiomon/internal/warm"
)

const dateLayout = "2006-01-02"

// MonitorOptions are the optional per-campaign settings accepted when
// monitoring starts. Zero values fall back to the configured defaults.
type MonitorOptions struct {
	StartDate      string
	Interval       time.Duration
	AlertThreshold int
}

// PollController is the slice of the scheduler the service drives:
// registering the first campaign arms the poll timer, and (under the
// auto-idle policy) stopping the last one disarms it.
type PollController interface {
	EnsureRunning()
	Stop()
	Running() bool
}

type MonitorServiceInterface interface {
	StartMonitoring(campaignID, artistName string, opts MonitorOptions) models.CampaignConfig
	StopMonitoring(campaignID string)
	CheckAllCampaigns(ctx context.Context)
	GetCampaign(campaignID string) (models.CampaignConfig, bool)
	ListCampaigns() []models.CampaignConfig
	History(campaignID string) []*models.PlayRecord
	MonitoringStatus() models.MonitoringStatus
	OverallAnalytics() models.OverallAnalytics
	RecentPlays(limit int) []models.TimelineEntry
	AddAlertCallback(fn alerts.AlertCallback)
	SourceHealth(ctx context.Context) error
	AttachScheduler(poller PollController)
}

/// MonitorService owns the tick pipeline: fetch plays for every active
// campaign, diff them against history, persist, update counters and
// analytics, then dispatch alerts. Within one campaign the snapshot is
// always written before alerting, so a delivery failure can cost a
// notification but never produce a duplicate.
type MonitorService struct {
	config     *structures.Config
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	source     warm.PlaySource
	history    *models.HistoryStore
	registry   *models.CampaignRegistry
	analytics  *models.Analytics
	dispatcher alerts.DispatcherInterface
	persister  persistence.FileManagerInterface
	poller     PollController
}

func NewMonitorService(
	conf *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	source warm.PlaySource,
	history *models.HistoryStore,
	registry *models.CampaignRegistry,
	analytics *models.Analytics,
	dispatcher alerts.DispatcherInterface,
	persister persistence.FileManagerInterface,
) MonitorServiceInterface {
	return &MonitorService{
		config:     conf,
		logger:     logger,
		metrics:    metrics,
		source:     source,
		history:    history,
		registry:   registry,
		analytics:  analytics,
		dispatcher: dispatcher,
		persister:  persister,
	}
}

// AttachScheduler hands the service its poll controller. Called once by the
// composition root before any campaign is registered.
func (s *MonitorService) AttachScheduler(poller PollController) {
	s.poller = poller
}

func (s *MonitorService) StartMonitoring(campaignID, artistName string, opts MonitorOptions) models.CampaignConfig {
	interval := opts.Interval
	if interval <= 0 {
		interval = s.config.Monitor.Interval
	}
	threshold := opts.AlertThreshold
	if threshold <= 0 {
		threshold = s.config.Monitor.AlertThreshold
	}
	if threshold <= 0 {
		threshold = 1
	}
	startDate := opts.StartDate
	if startDate == "" {
		startDate = time.Now().Format(dateLayout)
	}

	cfg := s.registry.Register(models.CampaignConfig{
		CampaignID:     campaignID,
		ArtistName:     artistName,
		StartDate:      startDate,
		Interval:       interval,
		AlertThreshold: threshold,
	})

	s.logger.Infof(providers.TypeMonitor, "Monitoring started for %s (%s) from %s", artistName, campaignID, startDate)

	if s.poller != nil {
		s.poller.EnsureRunning()
	}
	return cfg
}

func (s *MonitorService) StopMonitoring(campaignID string) {
	s.registry.Deactivate(campaignID)
	s.logger.Infof(providers.TypeMonitor, "Monitoring stopped for %s", campaignID)

	if s.config.Monitor.AutoIdle && s.poller != nil && s.registry.ActiveCount() == 0 {
		s.poller.Stop()
	}
}

// CheckAllCampaigns runs one tick: every active campaign is checked
// sequentially in registration order. A failure for one campaign is logged
// and never aborts the remainder of the tick.
func (s *MonitorService) CheckAllCampaigns(ctx context.Context) {
	for _, cfg := range s.registry.Active() {
		if err := s.checkCampaign(ctx, cfg); err != nil {
			s.metrics.IncFetchErrors(cfg.CampaignID)
			s.logger.Errorf(providers.TypeMonitor, "Check failed for %s: %s", cfg.CampaignID, err)
		}
	}
}

func (s *MonitorService) checkCampaign(ctx context.Context, cfg models.CampaignConfig) error {
	from, err := time.Parse(dateLayout, cfg.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", cfg.StartDate, err)
	}

	fetched, err := s.source.PlaysForArtist(ctx, cfg.ArtistName, from, time.Now())
	if err != nil {
		// lastCheck stays untouched so the next tick retries the same window.
		return fmt.Errorf("fetch plays: %w", err)
	}

	now := time.Now()
	fresh := models.DiffPlays(s.history.Plays(cfg.CampaignID), fetched, now)
	if len(fresh) == 0 {
		s.registry.ApplyCheck(cfg.CampaignID, 0, now)
		return nil
	}

	s.history.Append(cfg.CampaignID, fresh)
	if err := s.persister.SaveToFile(s.config.Persistence.FilePath); err != nil {
		// In-memory state stays correct; a crash before the next good save
		// would re-detect these plays on restart.
		s.logger.Errorf(providers.TypeMonitor, "Snapshot save failed: %s", err)
	}

	s.registry.ApplyCheck(cfg.CampaignID, len(fresh), now)
	updated, _ := s.registry.Get(cfg.CampaignID)
	s.analytics.Record(updated, fresh, now)
	s.metrics.AddPlaysDetected(cfg.CampaignID, len(fresh))

	s.logger.Infof(providers.TypeMonitor, "%d new plays for %s (total %d)", len(fresh), cfg.CampaignID, updated.TotalPlays)

	if len(fresh) >= updated.AlertThreshold {
		s.dispatcher.Dispatch(updated, fresh)
	}
	return nil
}

func (s *MonitorService) GetCampaign(campaignID string) (models.CampaignConfig, bool) {
	return s.registry.Get(campaignID)
}

func (s *MonitorService) ListCampaigns() []models.CampaignConfig {
	return s.registry.All()
}

func (s *MonitorService) History(campaignID string) []*models.PlayRecord {
	return s.history.Plays(campaignID)
}

func (s *MonitorService) MonitoringStatus() models.MonitoringStatus {
	campaigns := s.registry.All()
	status := models.MonitoringStatus{
		Monitoring:      s.poller != nil && s.poller.Running(),
		ActiveCampaigns: s.registry.ActiveCount(),
		Campaigns:       make([]models.CampaignStatus, 0, len(campaigns)),
	}
	for _, c := range campaigns {
		status.Campaigns = append(status.Campaigns, models.CampaignStatus{
			CampaignID: c.CampaignID,
			ArtistName: c.ArtistName,
			Monitoring: c.Active,
			LastCheck:  c.LastCheck,
			TotalPlays: c.TotalPlays,
			NewPlays:   c.NewPlays,
		})
	}
	return status
}

func (s *MonitorService) OverallAnalytics() models.OverallAnalytics {
	registered := len(s.registry.All())
	return models.OverallAnalytics{
		TotalPlays:              s.analytics.TotalPlays(),
		TotalCampaigns:          registered,
		AveragePlaysPerCampaign: s.analytics.AveragePlaysPerCampaign(registered),
		TopStations:             s.analytics.TopStations(5),
		RecentPlays:             s.analytics.RecentPlays(20),
	}
}

func (s *MonitorService) RecentPlays(limit int) []models.TimelineEntry {
	return s.analytics.RecentPlays(limit)
}

func (s *MonitorService) AddAlertCallback(fn alerts.AlertCallback) {
	s.dispatcher.AddAlertCallback(fn)
}

func (s *MonitorService) SourceHealth(ctx context.Context) error {
	return s.source.Ping(ctx)
}
