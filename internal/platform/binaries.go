package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Binaries holds resolved paths for the two external tools the downloader
// supervises. FFprobe is best-effort and may be empty.
type Binaries struct {
	YTDLP   string
	FFmpeg  string
	FFprobe string
}

// FindBinaries resolves yt-dlp and ffmpeg, preferring bundled copies in the
// given extra directories (and `bin/` beside the executable) over PATH.
// Failure names the missing tool and where it was expected.
func FindBinaries(extraDirs ...string) (Binaries, error) {
	dirs := candidateDirs(extraDirs)

	ytdlp, err := findBinary("yt-dlp", dirs)
	if err != nil {
		return Binaries{}, err
	}
	ffmpeg, err := findBinary("ffmpeg", dirs)
	if err != nil {
		return Binaries{}, err
	}
	ffprobe, _ := findBinary("ffprobe", dirs)

	return Binaries{YTDLP: ytdlp, FFmpeg: ffmpeg, FFprobe: ffprobe}, nil
}

// BinaryStatus reports each tool's presence without failing, for preflight
// checks.
func BinaryStatus(extraDirs ...string) map[string]string {
	dirs := candidateDirs(extraDirs)
	status := make(map[string]string, 3)
	for _, name := range []string{"yt-dlp", "ffmpeg", "ffprobe"} {
		path, err := findBinary(name, dirs)
		if err != nil {
			path = ""
		}
		status[name] = path
	}
	return status
}

func candidateDirs(extraDirs []string) []string {
	dirs := make([]string, 0, len(extraDirs)+2)
	for _, d := range extraDirs {
		if strings.TrimSpace(d) != "" {
			dirs = append(dirs, d)
		}
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "bin"))
	}
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, filepath.Join(cwd, "resources", "bin"))
	}
	return dirs
}

func findBinary(name string, dirs []string) (string, error) {
	exe := exeName(name)
	for _, dir := range dirs {
		candidate := filepath.Join(dir, exe)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	if path, err := exec.LookPath(exe); err == nil {
		return path, nil
	}
	return "", fmt.Errorf("%s not found: install it on PATH or place it in one of %s", name, strings.Join(dirs, ", "))
}

func exeName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
