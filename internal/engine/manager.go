// Package engine supervises download jobs: it accepts one job at a time,
// forwards it to a long-lived worker goroutine, republishes the worker's
// structured events, and owns cancellation and crash recovery.
package engine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"yt-media-fetcher/internal/model"
	"yt-media-fetcher/internal/platform"
	"yt-media-fetcher/internal/store"
)

type ManagerOptions struct {
	// BinDirs are extra directories searched for yt-dlp/ffmpeg before PATH.
	BinDirs []string
	// LogDir receives one raw-output log file per job; empty disables tee.
	LogDir string
	// EventBuffer sizes the event channel (default 256).
	EventBuffer int
}

// Manager is the externally facing job supervisor. At most one job is active
// at any time; a second start request fails fast instead of queueing.
type Manager struct {
	mu     sync.Mutex
	phase  model.Phase
	jobID  string
	cancel *cancelState

	binDirs []string
	logDir  string

	commands    chan model.Command
	events      chan model.Event
	workerAlive bool
	closed      bool
}

func NewManager(opts ManagerOptions) *Manager {
	buffer := opts.EventBuffer
	if buffer <= 0 {
		buffer = 256
	}
	return &Manager{
		phase:    model.PhaseIdle,
		binDirs:  opts.BinDirs,
		logDir:   opts.LogDir,
		commands: make(chan model.Command, 1),
		events:   make(chan model.Event, buffer),
	}
}

// Events is the ordered stream of job events for the lifetime of the manager.
func (m *Manager) Events() <-chan model.Event {
	return m.events
}

func (m *Manager) Phase() model.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Dispatch routes one protocol command. Start commands are rejected while a
// job is active; Cancel outside a job is a harmless no-op.
func (m *Manager) Dispatch(cmd model.Command) error {
	switch c := cmd.(type) {
	case model.StartSingle:
		_, err := m.StartSingle(c.URL, c.Options)
		return err
	case model.StartBatch:
		_, err := m.StartBatch(c.URLs, c.Options)
		return err
	case model.Cancel:
		m.Cancel()
		return nil
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}

// StartSingle begins one download job and returns its job id.
func (m *Manager) StartSingle(url string, opts model.JobOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if !reHTTPURL.MatchString(url) {
		return "", fmt.Errorf("invalid URL: %s", url)
	}
	jobID, err := m.begin(fmt.Sprintf("Starting download of %s", url))
	if err != nil {
		return "", err
	}
	m.commands <- model.StartSingle{JobID: jobID, URL: url, Options: opts}
	return jobID, nil
}

// StartBatch begins a sequential multi-URL job and returns its job id.
func (m *Manager) StartBatch(urls []string, opts model.JobOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if len(urls) == 0 {
		return "", fmt.Errorf("batch contains no URLs")
	}
	jobID, err := m.begin(fmt.Sprintf("Starting batch (%d items)", len(urls)))
	if err != nil {
		return "", err
	}
	m.commands <- model.StartBatch{JobID: jobID, URLs: urls, Options: opts}
	return jobID, nil
}

// Cancel requests best-effort termination of the active job. The process may
// take time to die; further Log/Progress events can arrive until Finished.
// Idempotent: repeated calls while already Cancelling emit nothing new.
func (m *Manager) Cancel() {
	m.mu.Lock()
	if m.phase != model.PhaseRunning && m.phase != model.PhaseCancelling {
		m.mu.Unlock()
		return
	}
	first := m.phase == model.PhaseRunning
	m.phase, _ = model.Transition(m.phase, model.PhaseCancelling)
	jobID := m.jobID
	cancel := m.cancel
	m.mu.Unlock()

	if first {
		m.emit(model.StatusEvent{JobID: jobID, Phase: model.PhaseCancelling, Message: "Cancelling"})
		m.emit(model.LogEvent{JobID: jobID, Level: model.LevelWarn, Message: "Cancel requested"})
	}
	cancel.request()
}

// Close stops the worker goroutine and refuses further starts. Only valid
// once no job is active.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	if m.workerAlive {
		close(m.commands)
		m.workerAlive = false
	}
}

// begin performs the mutual-exclusion check and the Idle -> Running
// transition atomically, allocating the job's id and cancel state.
func (m *Manager) begin(message string) (string, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", fmt.Errorf("manager is closed")
	}
	if m.phase != model.PhaseIdle {
		m.mu.Unlock()
		return "", fmt.Errorf("a job is already running")
	}
	phase, err := model.Transition(m.phase, model.PhaseRunning)
	if err != nil {
		m.mu.Unlock()
		return "", err
	}
	m.phase = phase
	m.jobID = uuid.NewString()
	m.cancel = &cancelState{}
	jobID := m.jobID
	m.ensureWorkerLocked()
	m.mu.Unlock()

	m.emit(model.StatusEvent{JobID: jobID, Phase: model.PhaseRunning, Message: message})
	return jobID, nil
}

// ensureWorkerLocked lazily starts the worker goroutine; it is reused across
// consecutive jobs and only replaced after a crash.
func (m *Manager) ensureWorkerLocked() {
	if m.workerAlive {
		return
	}
	m.workerAlive = true
	go m.workerLoop()
}

// workerLoop is the isolated execution context. A panic inside job execution
// must not take down the supervisor: it is recovered, reported as an Error
// event, and the manager returns to Idle so a new job can start.
func (m *Manager) workerLoop() {
	defer func() {
		if r := recover(); r != nil {
			m.mu.Lock()
			m.workerAlive = false
			active := m.phase == model.PhaseRunning || m.phase == model.PhaseCancelling
			jobID := m.jobID
			m.phase = model.PhaseIdle
			m.mu.Unlock()
			if active {
				m.emit(model.ErrorEvent{JobID: jobID, Message: fmt.Sprintf("job worker crashed: %v", r)})
			}
		}
	}()

	for cmd := range m.commands {
		switch c := cmd.(type) {
		case model.StartSingle:
			m.runJob(c.JobID, c.Options, func(r *runner) error {
				return r.runOne(c.URL, c.Options, 0, 0)
			})
		case model.StartBatch:
			m.runJob(c.JobID, c.Options, func(r *runner) error {
				return r.runBatch(c.URLs, c.Options)
			})
		case model.Cancel:
			// Cancellation bypasses the command channel; nothing to do here.
		}
	}
}

func (m *Manager) runJob(jobID string, opts model.JobOptions, fn func(*runner) error) {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()

	bins, err := platform.FindBinaries(m.binDirs...)
	if err != nil {
		m.finish(jobID, err, false)
		return
	}
	m.emit(model.LogEvent{JobID: jobID, Level: model.LevelDebug, Message: "yt-dlp: " + bins.YTDLP})
	m.emit(model.LogEvent{JobID: jobID, Level: model.LevelDebug, Message: "ffmpeg: " + bins.FFmpeg})

	logW, logClose := m.openJobLog(jobID)
	defer logClose()

	r := &runner{
		bins:   bins,
		jobID:  jobID,
		emit:   m.emit,
		logW:   logW,
		cancel: cancel,
	}
	err = fn(r)
	m.finish(jobID, err, cancel.isRequested())
}

// finish emits the job's terminal events and returns the manager to Idle.
func (m *Manager) finish(jobID string, err error, cancelled bool) {
	if err != nil && !cancelled {
		m.emit(model.ErrorEvent{JobID: jobID, Message: err.Error()})
		m.setIdle(model.PhaseError)
		return
	}
	message := "Done."
	if cancelled {
		message = "Cancelled."
	}
	m.emit(model.StatusEvent{JobID: jobID, Phase: model.PhaseFinished, Message: message})
	m.emit(model.FinishedEvent{JobID: jobID})
	m.setIdle(model.PhaseFinished)
}

func (m *Manager) setIdle(via model.Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if phase, err := model.Transition(m.phase, via); err == nil {
		m.phase = phase
	}
	if phase, err := model.Transition(m.phase, model.PhaseIdle); err == nil {
		m.phase = phase
	}
	m.cancel = nil
	m.jobID = ""
}

func (m *Manager) openJobLog(jobID string) (io.Writer, func()) {
	if m.logDir == "" {
		return nil, func() {}
	}
	if err := store.Mkdir(m.logDir); err != nil {
		m.emit(model.LogEvent{JobID: jobID, Level: model.LevelDebug, Message: "job log disabled: " + err.Error()})
		return nil, func() {}
	}
	f, err := os.Create(filepath.Join(m.logDir, jobID+".log"))
	if err != nil {
		m.emit(model.LogEvent{JobID: jobID, Level: model.LevelDebug, Message: "job log disabled: " + err.Error()})
		return nil, func() {}
	}
	return f, func() { _ = f.Close() }
}

func (m *Manager) emit(evt model.Event) {
	m.events <- evt
}
