package model

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Event is the closed set of notifications published by the job supervisor.
// Exactly one of FinishedEvent or ErrorEvent terminates a job.
type Event interface {
	isEvent()
}

// StatusEvent announces a phase change with a human-readable message.
type StatusEvent struct {
	JobID   string
	Phase   Phase
	Message string
}

// LogEvent carries one output or diagnostic line.
type LogEvent struct {
	JobID   string
	Level   LogLevel
	Message string
}

// ProgressEvent carries a partial progress update for the active job.
type ProgressEvent struct {
	JobID    string
	Progress Snapshot
}

// FinishedEvent marks successful (or cancelled) completion.
type FinishedEvent struct {
	JobID string
}

// ErrorEvent marks job failure with a diagnostic message.
type ErrorEvent struct {
	JobID   string
	Message string
}

func (StatusEvent) isEvent()   {}
func (LogEvent) isEvent()      {}
func (ProgressEvent) isEvent() {}
func (FinishedEvent) isEvent() {}
func (ErrorEvent) isEvent()    {}
