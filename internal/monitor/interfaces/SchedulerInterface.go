package interfaces

type SchedulerInterface interface {
	EnsureRunning()
	Stop()
	Running() bool
	Restore() error
	Persist() error
}
