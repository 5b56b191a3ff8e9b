package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"yt-media-fetcher/internal/model"
)

// fakeTools writes stand-in yt-dlp/ffmpeg scripts whose behavior is keyed off
// the target URL, so one binary can exercise probe, download, failure, and
// slow paths.
func fakeTools(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script harness requires a POSIX shell")
	}
	dir := t.TempDir()

	ytScript := `#!/usr/bin/env bash
probe=0
for a in "$@"; do
  if [ "$a" = "--dump-single-json" ]; then probe=1; fi
done
url="${!#}"
if [ "$probe" = "1" ]; then
  case "$url" in
    *playlist*) echo '{"_type":"playlist","title":"My Mix: Vol.1"}' ;;
    *probefail*) echo "ERROR: probe exploded" >&2; exit 1 ;;
    *) echo '{"title":"Single Video"}' ;;
  esac
  exit 0
fi
case "$url" in
  *dlfail*)
    echo "[download]   5.0% of 10.00MiB at 1.00MiB/s ETA 00:09"
    echo "ERROR: unable to continue"
    exit 1
    ;;
  *slow*)
    echo "[download]   0.0% of 10.00MiB at 1.00MiB/s ETA 00:59"
    sleep 30
    ;;
  *interleave*)
    for i in $(seq 1 200); do
      echo "[download]  50.0% of 10.00MiB at 1.00MiB/s ETA 00:10"
    done &
    for i in $(seq 1 200); do
      echo "WARNING: thumbnail retry $i" >&2
    done
    wait
    echo "ERROR: giving up after retries"
    exit 1
    ;;
  *)
    echo "[title] Test Video"
    echo "[download]  12.3% of 10.00MiB at 1.23MiB/s ETA 00:32"
    echo "[download] 100% of 10.00MiB in 00:05"
    ;;
esac
`
	if err := os.WriteFile(filepath.Join(dir, "yt-dlp"), []byte(ytScript), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ffmpeg"), []byte("#!/usr/bin/env bash\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func testOptions(t *testing.T) model.JobOptions {
	t.Helper()
	return model.JobOptions{
		DestinationDir: t.TempDir(),
		Format:         model.FormatAudio,
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(ManagerOptions{BinDirs: []string{fakeTools(t)}})
	t.Cleanup(func() {
		if m.Phase() == model.PhaseIdle {
			m.Close()
		}
	})
	return m
}

// waitEvent blocks for the next event or fails the test.
func waitEvent(t *testing.T, m *Manager) model.Event {
	t.Helper()
	select {
	case evt := <-m.Events():
		return evt
	case <-time.After(15 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// collectUntilTerminal drains events until FinishedEvent or ErrorEvent.
func collectUntilTerminal(t *testing.T, m *Manager) []model.Event {
	t.Helper()
	var events []model.Event
	for {
		evt := waitEvent(t, m)
		events = append(events, evt)
		switch evt.(type) {
		case model.FinishedEvent, model.ErrorEvent:
			return events
		}
	}
}
