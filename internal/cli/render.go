package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"yt-media-fetcher/internal/engine"
	"yt-media-fetcher/internal/model"
)

// renderJob consumes the manager's event stream until the job reaches a
// terminal event, printing a line-oriented progress log. Ctrl+C becomes a
// cancel request; the second terminal event still drains normally so the
// child process is confirmed dead before we return.
func renderJob(m *engine.Manager, verbose bool) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			m.Cancel()
		}
	}()

	for evt := range m.Events() {
		switch e := evt.(type) {
		case model.StatusEvent:
			fmt.Println(e.Message)
		case model.ProgressEvent:
			if line := formatProgress(e.Progress); line != "" {
				fmt.Println(line)
			}
		case model.LogEvent:
			switch e.Level {
			case model.LevelError, model.LevelWarn:
				fmt.Fprintln(os.Stderr, e.Message)
			case model.LevelDebug:
				if verbose {
					fmt.Println(e.Message)
				}
			default:
				fmt.Println(e.Message)
			}
		case model.FinishedEvent:
			return nil
		case model.ErrorEvent:
			return errors.New(e.Message)
		}
	}
	return nil
}

func formatProgress(s model.Snapshot) string {
	parts := make([]string, 0, 5)
	if s.ItemIndex > 0 && s.ItemCount > 0 {
		parts = append(parts, fmt.Sprintf("[%d/%d]", s.ItemIndex, s.ItemCount))
	}
	if s.Percent != nil {
		parts = append(parts, fmt.Sprintf("%.1f%%", *s.Percent))
	}
	if s.Speed != "" {
		parts = append(parts, s.Speed)
	}
	if s.ETA != "" {
		parts = append(parts, "ETA "+s.ETA)
	}
	if s.Title != "" {
		parts = append(parts, s.Title)
	}
	return strings.Join(parts, " ")
}
