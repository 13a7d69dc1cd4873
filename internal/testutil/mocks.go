package testutil

import (
	"sync"
	"time"

	"radiomon/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Entries returns a copy of the recorded log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogEntry, len(m.Logs))
	copy(out, m.Logs)
	return out
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu            sync.Mutex
	RequestsTotal int
	CacheHits     int
	CacheMisses   int
	Persistences  int
	Ticks         int
	PlaysDetected map[string]int
	AlertsSent    map[string]int
	FetchErrors   map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		PlaysDetected: make(map[string]int),
		AlertsSent:    make(map[string]int),
		FetchErrors:   make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestsTotal++
}

func (m *MockMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persistences++
}

func (m *MockMetrics) ObserveTickDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ticks++
}

func (m *MockMetrics) AddPlaysDetected(campaignID string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlaysDetected[campaignID] += count
}

func (m *MockMetrics) IncAlertsSent(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AlertsSent[channel]++
}

func (m *MockMetrics) IncFetchErrors(campaignID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchErrors[campaignID]++
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements persistence.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockFileManager implements persistence.FileManagerInterface.
type MockFileManager struct {
	mu        sync.Mutex
	SaveCalls []string
	LoadCalls []string
	SaveErr   error
	LoadErr   error
	OnSave    func(path string)
}

func (m *MockFileManager) SaveToFile(path string) error {
	m.mu.Lock()
	m.SaveCalls = append(m.SaveCalls, path)
	hook := m.OnSave
	err := m.SaveErr
	m.mu.Unlock()
	if hook != nil {
		hook(path)
	}
	return err
}

func (m *MockFileManager) LoadFromFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls = append(m.LoadCalls, path)
	return m.LoadErr
}

func (m *MockFileManager) Close() {}

func (m *MockFileManager) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SaveCalls)
}

// MockPoller implements services.PollController.
type MockPoller struct {
	mu          sync.Mutex
	running     bool
	EnsureCalls int
	StopCalls   int
}

func (m *MockPoller) EnsureRunning() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnsureCalls++
	m.running = true
}

func (m *MockPoller) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalls++
	m.running = false
}

func (m *MockPoller) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
