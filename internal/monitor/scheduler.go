package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"radiomon/internal/monitor/interfaces"
	"radiomon/internal/persistence"
	"radiomon/internal/providers"
	"radiomon/internal/services"
	"radiomon/internal/structures"
)

// Scheduler drives the poll loop and the periodic snapshot save. It is an
// explicit two-state machine: Idle (no timer) and Running (gron timer
// armed). EnsureRunning and Stop are idempotent; registering the first
// campaign arms the timer, and by default it keeps ticking even when every
// campaign has been stopped (the auto-idle policy in the service decides
// otherwise).
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	service     services.MonitorServiceInterface
	fileManager persistence.FileManagerInterface
	metrics     providers.MetricsProviderInterface

	mu      sync.Mutex // guards state transitions
	opsMu   sync.Mutex // serializes ticks and snapshot writes
	cron    *gron.Cron
	running bool
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.MonitorServiceInterface, fileManager persistence.FileManagerInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		service:     service,
		fileManager: fileManager,
		metrics:     metrics,
	}
}

func (s *Scheduler) EnsureRunning() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Monitor.Interval), s.tick)
	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), s.save)
	s.cron.Start()
	s.running = true

	s.logger.Infof(providers.TypeMonitor, "Polling started, interval %s", s.config.Monitor.Interval)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.cron = nil
	s.running = false

	s.logger.Infof(providers.TypeMonitor, "Polling stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) tick() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	s.service.CheckAllCampaigns(context.Background())
	s.metrics.ObserveTickDuration(time.Since(start))
}

func (s *Scheduler) save() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return
	}
	s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting play history to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}
