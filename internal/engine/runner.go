package engine

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"yt-media-fetcher/internal/model"
	"yt-media-fetcher/internal/platform"
	"yt-media-fetcher/internal/progress"
	"yt-media-fetcher/internal/store"
	"yt-media-fetcher/internal/ytdlp"
)

const tailKeep = 40

var (
	reHTTPURL   = regexp.MustCompile(`(?i)^https?://`)
	reErrorHint = regexp.MustCompile(`(?i)error:|warning:`)
)

// cancelState is the one piece of state shared between the supervising
// manager and the job worker: the cancel flag plus the single mutable slot
// holding the currently running child process.
type cancelState struct {
	mu        sync.Mutex
	requested bool
	current   *ytdlp.Process
}

// request marks the job cancelled and terminates the active process tree, if
// any. Safe to call repeatedly.
func (c *cancelState) request() {
	c.mu.Lock()
	c.requested = true
	proc := c.current
	c.mu.Unlock()
	if proc != nil {
		_ = proc.KillTree()
	}
}

// setCurrent publishes the active process and reports whether cancellation
// already arrived, so a process spawned mid-cancel is killed immediately.
func (c *cancelState) setCurrent(p *ytdlp.Process) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = p
	return c.requested
}

func (c *cancelState) clearCurrent() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

func (c *cancelState) isRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requested
}

// tailBuffer keeps the most recent output lines for failure diagnostics.
// The stdout and stderr reader goroutines both feed it.
type tailBuffer struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[1:]
	}
}

// hint returns the most recent line matching an error/warning marker, or the
// very last line when none matched.
func (t *tailBuffer) hint() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.lines) - 1; i >= 0; i-- {
		if reErrorHint.MatchString(t.lines[i]) {
			return t.lines[i]
		}
	}
	if len(t.lines) > 0 {
		return t.lines[len(t.lines)-1]
	}
	return ""
}

// runner executes the downloads of a single job inside the worker goroutine.
type runner struct {
	bins   platform.Binaries
	jobID  string
	emit   func(model.Event)
	logW   io.Writer
	cancel *cancelState
}

func (r *runner) log(level model.LogLevel, message string) {
	r.emit(model.LogEvent{JobID: r.jobID, Level: level, Message: message})
}

// runOne downloads a single URL: probe for a playlist, prepare the output
// directory, then spawn and supervise the fetch tool.
func (r *runner) runOne(url string, opts model.JobOptions, itemIndex, itemCount int) error {
	if !reHTTPURL.MatchString(url) {
		return fmt.Errorf("invalid URL: %s", url)
	}

	playlist := false
	outputDir := opts.DestinationDir

	info, err := ytdlp.Probe(r.bins.YTDLP, opts, r.bins.FFmpeg, url)
	if err != nil {
		// Degraded single-item mode; the real download surfaces anything
		// terminal.
		r.log(model.LevelDebug, "Probe failed, continuing without playlist detection.")
	} else if info.IsPlaylist() {
		playlist = true
		title := info.CollectionTitle()
		outputDir = filepath.Join(opts.DestinationDir, platform.SanitizeName(title))
		if err := store.Mkdir(outputDir); err != nil {
			return err
		}
		r.log(model.LevelInfo, fmt.Sprintf("Playlist detected: %q", title))
	}

	if !playlist {
		if err := store.Mkdir(outputDir); err != nil {
			return err
		}
	}

	args := append(ytdlp.DownloadArgs(opts, r.bins.FFmpeg, playlist, outputDir), url)

	r.log(model.LevelInfo, "yt-dlp start: "+url)
	if opts.Verbose {
		r.log(model.LevelDebug, "Args: "+strings.Join(args, " "))
	}

	tail := newTailBuffer(tailKeep)
	handler := func(stream ytdlp.OutputStream, line string) {
		if part := progress.ParseLine(line); part != nil {
			snap := *part
			if snap.ItemIndex == 0 && itemIndex > 0 && itemCount > 0 {
				snap.ItemIndex = itemIndex
				snap.ItemCount = itemCount
			}
			r.emit(model.ProgressEvent{JobID: r.jobID, Progress: snap})
		}
		r.log(progress.Classify(line), line)
		tail.add(line)
	}

	proc, err := ytdlp.StartStreaming(r.bins.YTDLP, args, r.logW, handler)
	if err != nil {
		return err
	}
	if r.cancel.setCurrent(proc) {
		_ = proc.KillTree()
	}

	waitErr := proc.Wait()
	r.cancel.clearCurrent()

	if r.cancel.isRequested() {
		// Cancelled jobs resolve as success regardless of exit code.
		return nil
	}
	if waitErr == nil {
		return nil
	}
	if hint := tail.hint(); hint != "" {
		return fmt.Errorf("download failed (%v), last output: %s", waitErr, hint)
	}
	return fmt.Errorf("download failed (%v)", waitErr)
}

// runBatch walks the URLs sequentially, attributing the 1-based position to
// every event. The first failing item terminates the batch; cancellation
// stops before the next item starts.
func (r *runner) runBatch(urls []string, opts model.JobOptions) error {
	clean := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			clean = append(clean, strings.TrimSpace(u))
		}
	}
	count := len(clean)
	if count == 0 {
		return fmt.Errorf("batch contains no URLs")
	}

	for i, url := range clean {
		if r.cancel.isRequested() {
			break
		}
		index := i + 1
		r.emit(model.ProgressEvent{
			JobID:    r.jobID,
			Progress: model.Snapshot{ItemIndex: index, ItemCount: count},
		})
		if err := r.runOne(url, opts, index, count); err != nil {
			return fmt.Errorf("item %d/%d (%s): %w", index, count, url, err)
		}
	}
	return nil
}
