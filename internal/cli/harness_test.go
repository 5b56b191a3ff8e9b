package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"yt-media-fetcher/internal/config"
	"yt-media-fetcher/internal/model"
	"yt-media-fetcher/internal/store"
)

func fakeToolsDir(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script harness requires a POSIX shell")
	}
	dir := t.TempDir()

	ytScript := `#!/usr/bin/env bash
for a in "$@"; do
  if [ "$a" = "--dump-single-json" ]; then
    echo '{"title":"Fixture Video"}'
    exit 0
  fi
done
url="${!#}"
case "$url" in
  *dlfail*)
    echo "ERROR: fixture download failure"
    exit 1
    ;;
  *)
    echo "[title] Fixture Video"
    echo "[download]  50.0% of 4.00MiB at 2.00MiB/s ETA 00:01"
    echo "[download] 100% of 4.00MiB in 00:02"
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

// getArgs builds a get/batch invocation isolated to per-test directories.
func getArgs(t *testing.T, command string, target string, extra ...string) ([]string, string) {
	t.Helper()
	settingsPath := filepath.Join(t.TempDir(), "settings.json")
	args := []string{
		command, target,
		"--settings", settingsPath,
		"--data-dir", t.TempDir(),
		"--bin-dir", fakeToolsDir(t),
		"--dest", t.TempDir(),
	}
	return append(args, extra...), settingsPath
}

func TestHarnessGetDownloadsAndPersistsSettings(t *testing.T) {
	args, settingsPath := getArgs(t, "get", "https://example.com/watch?v=ok")
	if err := Run(args); err != nil {
		t.Fatalf("get failed: %v", err)
	}

	settings, err := config.Load(settingsPath)
	if err != nil {
		t.Fatalf("settings not readable after run: %v", err)
	}
	if settings.Format != model.FormatAudio {
		t.Fatalf("unexpected persisted format: %s", settings.Format)
	}
}

func TestHarnessGetSurfacesDownloadFailure(t *testing.T) {
	args, _ := getArgs(t, "get", "https://example.com/dlfail")
	err := Run(args)
	if err == nil {
		t.Fatal("expected download failure to propagate")
	}
	if !strings.Contains(err.Error(), "download failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHarnessGetRejectsSecondInstance(t *testing.T) {
	dataDir := t.TempDir()
	lock, err := store.AcquireInstanceLock(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = lock.Release() }()

	err = Run([]string{
		"get", "https://example.com/ok",
		"--settings", filepath.Join(t.TempDir(), "settings.json"),
		"--data-dir", dataDir,
		"--bin-dir", fakeToolsDir(t),
		"--dest", t.TempDir(),
	})
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("second instance should be refused, got: %v", err)
	}
}

func TestHarnessBatchDownloadsAllListedURLs(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "urls.txt")
	list := strings.Join([]string{
		"# queued yesterday",
		"https://example.com/one",
		"",
		"https://example.com/two",
	}, "\n")
	if err := os.WriteFile(listPath, []byte(list), 0o644); err != nil {
		t.Fatal(err)
	}

	args, _ := getArgs(t, "batch", listPath)
	if err := Run(args); err != nil {
		t.Fatalf("batch failed: %v", err)
	}
}

func TestHarnessUnknownCommand(t *testing.T) {
	if err := Run([]string{"frobnicate"}); err == nil {
		t.Fatal("unknown command should error")
	}
}
