package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radiomon/internal/alerts"
	"radiomon/internal/models"
	"radiomon/internal/structures"
	"radiomon/internal/testutil"
)

type fakeSource struct {
	mu      sync.Mutex
	plays   map[string][]models.RawPlay
	err     error
	errFor  map[string]error
	pingErr error
	fetches int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		plays:  make(map[string][]models.RawPlay),
		errFor: make(map[string]error),
	}
}

func (f *fakeSource) setPlays(artist string, plays ...models.RawPlay) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays[artist] = plays
}

func (f *fakeSource) PlaysForArtist(_ context.Context, artistName string, _, _ time.Time) ([]models.RawPlay, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	if err := f.errFor[artistName]; err != nil {
		return nil, err
	}
	return f.plays[artistName], nil
}

func (f *fakeSource) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type fakeDispatcher struct {
	mu        sync.Mutex
	calls     []dispatchCall
	callbacks []alerts.AlertCallback
}

type dispatchCall struct {
	cfg      models.CampaignConfig
	newPlays []*models.PlayRecord
}

func (f *fakeDispatcher) Dispatch(cfg models.CampaignConfig, newPlays []*models.PlayRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, dispatchCall{cfg: cfg, newPlays: newPlays})
}

func (f *fakeDispatcher) AddAlertCallback(fn alerts.AlertCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, fn)
}

func (f *fakeDispatcher) dispatches() []dispatchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]dispatchCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func monitorTestConfig() *structures.Config {
	return &structures.Config{
		Monitor: structures.MonitorConfig{
			Interval:       2 * time.Minute,
			AlertThreshold: 1,
		},
		Persistence: structures.Persistence{
			FilePath:     "/tmp/radiomon-test.json",
			SaveInterval: 5 * time.Minute,
		},
	}
}

type serviceFixture struct {
	service    MonitorServiceInterface
	source     *fakeSource
	dispatcher *fakeDispatcher
	persister  *testutil.MockFileManager
	poller     *testutil.MockPoller
	history    *models.HistoryStore
	metrics    *testutil.MockMetrics
	config     *structures.Config
}

func newFixture(conf *structures.Config) *serviceFixture {
	f := &serviceFixture{
		source:     newFakeSource(),
		dispatcher: &fakeDispatcher{},
		persister:  &testutil.MockFileManager{},
		poller:     &testutil.MockPoller{},
		history:    models.NewHistoryStore(),
		metrics:    testutil.NewMockMetrics(),
		config:     conf,
	}
	f.service = NewMonitorService(
		conf,
		&testutil.MockLogger{},
		f.metrics,
		f.source,
		f.history,
		models.NewCampaignRegistry(),
		models.NewAnalytics(),
		f.dispatcher,
		f.persister,
	)
	f.service.AttachScheduler(f.poller)
	return f
}

func rawPlay(station, date, playTime string) models.RawPlay {
	return models.RawPlay{RadioStationName: station, Date: date, Time: playTime}
}

func TestStartMonitoring_RegistersAndArmsPoller(t *testing.T) {
	f := newFixture(monitorTestConfig())

	cfg := f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})

	assert.True(t, cfg.Active)
	assert.Equal(t, 2*time.Minute, cfg.Interval)
	assert.Equal(t, 1, cfg.AlertThreshold)
	assert.Equal(t, 1, f.poller.EnsureCalls)
	assert.True(t, f.poller.Running())
}

func TestStartMonitoring_DefaultsStartDateToToday(t *testing.T) {
	f := newFixture(monitorTestConfig())
	cfg := f.service.StartMonitoring("c1", "Artist", MonitorOptions{})
	assert.Equal(t, time.Now().Format(dateLayout), cfg.StartDate)
}

func TestCheckAll_NewPlaysDetectedAndAlerted(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})
	f.source.setPlays("Artist",
		rawPlay("Radio 1", "2026-08-05", "10:00"),
		rawPlay("Radio 2", "2026-08-05", "11:00"),
	)

	f.service.CheckAllCampaigns(context.Background())

	cfg, ok := f.service.GetCampaign("c1")
	require.True(t, ok)
	assert.Equal(t, 2, cfg.TotalPlays)
	assert.Equal(t, 2, f.history.Len("c1"))

	calls := f.dispatcher.dispatches()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].newPlays, 2)
	assert.Equal(t, 2, calls[0].cfg.TotalPlays)
	assert.Equal(t, 2, f.metrics.PlaysDetected["c1"])
}

func TestCheckAll_OnlyNewPlaysAlertOnSecondTick(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})
	f.source.setPlays("Artist",
		rawPlay("Radio 1", "2026-08-05", "10:00"),
		rawPlay("Radio 2", "2026-08-05", "11:00"),
	)
	f.service.CheckAllCampaigns(context.Background())

	f.source.setPlays("Artist",
		rawPlay("Radio 1", "2026-08-05", "10:00"),
		rawPlay("Radio 2", "2026-08-05", "11:00"),
		rawPlay("Radio 3", "2026-08-05", "12:00"),
	)
	f.service.CheckAllCampaigns(context.Background())

	calls := f.dispatcher.dispatches()
	require.Len(t, calls, 2)
	require.Len(t, calls[1].newPlays, 1)
	assert.Equal(t, "Radio 3", calls[1].newPlays[0].Station)

	cfg, _ := f.service.GetCampaign("c1")
	assert.Equal(t, 3, cfg.TotalPlays)
}

func TestCheckAll_NoNewPlaysNoAlert(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})
	f.source.setPlays("Artist", rawPlay("Radio 1", "2026-08-05", "10:00"))
	f.service.CheckAllCampaigns(context.Background())

	before, _ := f.service.GetCampaign("c1")
	f.service.CheckAllCampaigns(context.Background())
	after, _ := f.service.GetCampaign("c1")

	assert.Len(t, f.dispatcher.dispatches(), 1)
	assert.Equal(t, before.TotalPlays, after.TotalPlays)
	assert.True(t, after.LastCheck.After(before.LastCheck) || after.LastCheck.Equal(before.LastCheck))
}

func TestCheckAll_EmptyWindowStillAdvancesLastCheck(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})

	f.service.CheckAllCampaigns(context.Background())

	cfg, _ := f.service.GetCampaign("c1")
	assert.False(t, cfg.LastCheck.IsZero())
	assert.Equal(t, 0, cfg.TotalPlays)
	assert.Empty(t, f.dispatcher.dispatches())
	assert.Equal(t, 0, f.persister.Saves())
}

func TestCheckAll_FetchFailureKeepsLastCheck(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})
	f.source.err = errors.New("upstream 500")

	f.service.CheckAllCampaigns(context.Background())

	cfg, _ := f.service.GetCampaign("c1")
	assert.True(t, cfg.LastCheck.IsZero())
	assert.Equal(t, 0, cfg.TotalPlays)
	assert.Empty(t, f.dispatcher.dispatches())
	assert.Equal(t, 1, f.metrics.FetchErrors["c1"])
}

func TestCheckAll_FailureIsolatedPerCampaign(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("a", "Artist A", MonitorOptions{StartDate: "2026-08-01"})
	f.service.StartMonitoring("b", "Artist B", MonitorOptions{StartDate: "2026-08-01"})
	f.source.errFor["Artist A"] = errors.New("boom")
	f.source.setPlays("Artist B", rawPlay("Radio 1", "2026-08-05", "10:00"))

	f.service.CheckAllCampaigns(context.Background())

	calls := f.dispatcher.dispatches()
	require.Len(t, calls, 1)
	assert.Equal(t, "b", calls[0].cfg.CampaignID)
	assert.Equal(t, 1, f.metrics.FetchErrors["a"])
}

func TestCheckAll_InvalidStartDateIsFetchFailure(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "not-a-date"})

	f.service.CheckAllCampaigns(context.Background())

	assert.Equal(t, 0, f.source.fetchCount())
	assert.Equal(t, 1, f.metrics.FetchErrors["c1"])
}

func TestCheckAll_StoppedCampaignNotFetched(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})
	f.service.StopMonitoring("c1")

	f.service.CheckAllCampaigns(context.Background())

	assert.Equal(t, 0, f.source.fetchCount())
}

func TestCheckAll_PersistsBeforeDispatch(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})
	f.source.setPlays("Artist", rawPlay("Radio 1", "2026-08-05", "10:00"))

	// At the moment the snapshot save runs, nothing may have been dispatched.
	dispatchesAtSave := -1
	f.persister.OnSave = func(string) {
		dispatchesAtSave = len(f.dispatcher.dispatches())
	}

	f.service.CheckAllCampaigns(context.Background())

	require.Equal(t, 1, f.persister.Saves())
	require.Len(t, f.dispatcher.dispatches(), 1)
	assert.Equal(t, 0, dispatchesAtSave)
}

func TestCheckAll_SaveFailureStillAlerts(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})
	f.source.setPlays("Artist", rawPlay("Radio 1", "2026-08-05", "10:00"))
	f.persister.SaveErr = errors.New("disk full")

	f.service.CheckAllCampaigns(context.Background())

	assert.Len(t, f.dispatcher.dispatches(), 1)
	assert.Equal(t, 1, f.history.Len("c1"))
}

func TestCheckAll_ThresholdSuppressesSmallBatches(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01", AlertThreshold: 3})
	f.source.setPlays("Artist",
		rawPlay("Radio 1", "2026-08-05", "10:00"),
		rawPlay("Radio 2", "2026-08-05", "11:00"),
	)

	f.service.CheckAllCampaigns(context.Background())

	// Below threshold: recorded but not alerted.
	assert.Empty(t, f.dispatcher.dispatches())
	cfg, _ := f.service.GetCampaign("c1")
	assert.Equal(t, 2, cfg.TotalPlays)
	assert.Equal(t, 2, f.history.Len("c1"))
}

func TestRestart_RestoredHistoryYieldsNoReAlert(t *testing.T) {
	conf := monitorTestConfig()

	// First process: detect two plays.
	f1 := newFixture(conf)
	f1.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})
	f1.source.setPlays("Artist",
		rawPlay("Radio 1", "2026-08-05", "10:00"),
		rawPlay("Radio 2", "2026-08-05", "11:00"),
	)
	f1.service.CheckAllCampaigns(context.Background())
	snapshot := f1.history.Snapshot()

	// Second process: restore the snapshot and fetch the same plays.
	f2 := newFixture(conf)
	f2.history.Restore(snapshot)
	f2.service.StartMonitoring("c1", "Artist", MonitorOptions{StartDate: "2026-08-01"})
	f2.source.setPlays("Artist",
		rawPlay("Radio 1", "2026-08-05", "10:00"),
		rawPlay("Radio 2", "2026-08-05", "11:00"),
	)
	f2.service.CheckAllCampaigns(context.Background())

	assert.Empty(t, f2.dispatcher.dispatches())
	assert.Equal(t, 2, f2.history.Len("c1"))
}

func TestStopMonitoring_AutoIdleStopsPollerWhenLastCampaignStops(t *testing.T) {
	conf := monitorTestConfig()
	conf.Monitor.AutoIdle = true
	f := newFixture(conf)

	f.service.StartMonitoring("a", "Artist A", MonitorOptions{})
	f.service.StartMonitoring("b", "Artist B", MonitorOptions{})

	f.service.StopMonitoring("a")
	assert.Equal(t, 0, f.poller.StopCalls)

	f.service.StopMonitoring("b")
	assert.Equal(t, 1, f.poller.StopCalls)
}

func TestStopMonitoring_DefaultKeepsPollerRunning(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("a", "Artist A", MonitorOptions{})
	f.service.StopMonitoring("a")

	assert.Equal(t, 0, f.poller.StopCalls)
	assert.True(t, f.poller.Running())
}

func TestMonitoringStatus_ReflectsRegistryAndPoller(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("a", "Artist A", MonitorOptions{})
	f.service.StartMonitoring("b", "Artist B", MonitorOptions{})
	f.service.StopMonitoring("b")

	status := f.service.MonitoringStatus()
	assert.True(t, status.Monitoring)
	assert.Equal(t, 1, status.ActiveCampaigns)
	require.Len(t, status.Campaigns, 2)
	assert.True(t, status.Campaigns[0].Monitoring)
	assert.False(t, status.Campaigns[1].Monitoring)
}

func TestOverallAnalytics_AggregatesAcrossCampaigns(t *testing.T) {
	f := newFixture(monitorTestConfig())
	f.service.StartMonitoring("a", "Artist A", MonitorOptions{StartDate: "2026-08-01"})
	f.service.StartMonitoring("b", "Artist B", MonitorOptions{StartDate: "2026-08-01"})
	f.source.setPlays("Artist A",
		rawPlay("Radio 1", "2026-08-05", "10:00"),
		rawPlay("Radio 1", "2026-08-05", "11:00"),
	)
	f.source.setPlays("Artist B", rawPlay("Radio 2", "2026-08-05", "12:00"))

	f.service.CheckAllCampaigns(context.Background())

	overall := f.service.OverallAnalytics()
	assert.Equal(t, 3, overall.TotalPlays)
	assert.Equal(t, 2, overall.TotalCampaigns)
	assert.Equal(t, 1.5, overall.AveragePlaysPerCampaign)
	require.NotEmpty(t, overall.TopStations)
	assert.Equal(t, "Radio 1", overall.TopStations[0].Station)
	assert.Len(t, overall.RecentPlays, 3)
}

func TestSourceHealth_ProxiesPing(t *testing.T) {
	f := newFixture(monitorTestConfig())
	assert.NoError(t, f.service.SourceHealth(context.Background()))

	f.source.pingErr = errors.New("down")
	assert.Error(t, f.service.SourceHealth(context.Background()))
}
