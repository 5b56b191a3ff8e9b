package ytdlp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"yt-media-fetcher/internal/model"
)

// ProbeInfo is the slice of yt-dlp's --dump-single-json document the runner
// cares about: whether the URL is a collection and what to call it.
type ProbeInfo struct {
	Type          string            `json:"_type"`
	Title         string            `json:"title"`
	PlaylistTitle string            `json:"playlist_title"`
	Entries       []json.RawMessage `json:"entries"`
}

func (i ProbeInfo) IsPlaylist() bool {
	return i.Type == "playlist" || len(i.Entries) > 0
}

// CollectionTitle returns the playlist's display title, falling back through
// the document's known title fields.
func (i ProbeInfo) CollectionTitle() string {
	if t := strings.TrimSpace(i.Title); t != "" {
		return t
	}
	if t := strings.TrimSpace(i.PlaylistTitle); t != "" {
		return t
	}
	return "playlist"
}

// Probe runs the metadata-only invocation and parses its JSON document.
func Probe(ytdlpPath string, opts model.JobOptions, ffmpegPath, url string) (ProbeInfo, error) {
	stdout, stderr, err := runCapture(ytdlpPath, ProbeArgs(opts, ffmpegPath, url))
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			return ProbeInfo{}, fmt.Errorf("probe %s: %w", url, err)
		}
		return ProbeInfo{}, fmt.Errorf("probe %s: %w: %s", url, err, detail)
	}

	var info ProbeInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		return ProbeInfo{}, fmt.Errorf("parse probe JSON for %s: %w", url, err)
	}
	return info, nil
}

func runCapture(bin string, args []string) (string, string, error) {
	cmd := exec.Command(bin, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
