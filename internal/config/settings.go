// Package config persists the last-used job options so each session starts
// from the previous one's choices.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"yt-media-fetcher/internal/model"
	"yt-media-fetcher/internal/store"
)

const appDirName = "yt-media-fetcher"

type Settings struct {
	DestinationDir        string       `json:"destination_dir"`
	Format                model.Format `json:"format"`
	AudioBitrateKbps      int          `json:"audio_bitrate_kbps"`
	YoutubeClient         string       `json:"youtube_client"`
	UseCookiesFromBrowser bool         `json:"use_cookies_from_browser"`
	CookiesBrowser        string       `json:"cookies_browser"`
	UserAgent             string       `json:"user_agent"`
	Verbose               bool         `json:"verbose"`
}

func DefaultSettings() Settings {
	return Settings{
		DestinationDir:        defaultDownloadsDir(),
		Format:                model.FormatAudio,
		AudioBitrateKbps:      model.DefaultAudioBitrateKbps,
		YoutubeClient:         model.ClientAndroid,
		UseCookiesFromBrowser: false,
		CookiesBrowser:        "chrome",
		UserAgent:             "",
		Verbose:               false,
	}
}

// DefaultPath is the canonical settings location under the user config dir.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", appDirName, "settings.json")
	}
	return filepath.Join(base, appDirName, "settings.json")
}

// DataDir holds runtime artifacts (instance lock, per-job logs).
func DataDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", appDirName)
	}
	return filepath.Join(base, appDirName)
}

// Load reads settings from path, merging the stored values over defaults so
// fields added after the file was written still get sane values. A missing
// file yields pure defaults.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()
	err := store.ReadJSON(normalizePath(path), &settings)
	if err == nil {
		return normalizeSettings(settings), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	return Settings{}, err
}

func Save(path string, settings Settings) error {
	return store.WriteJSON(normalizePath(path), normalizeSettings(settings))
}

// JobOptions converts stored settings into a fresh per-job options value.
func (s Settings) JobOptions() model.JobOptions {
	return model.JobOptions{
		DestinationDir:        s.DestinationDir,
		Format:                s.Format,
		AudioBitrateKbps:      s.AudioBitrateKbps,
		YoutubeClient:         s.YoutubeClient,
		UseCookiesFromBrowser: s.UseCookiesFromBrowser,
		CookiesBrowser:        s.CookiesBrowser,
		UserAgent:             s.UserAgent,
		Verbose:               s.Verbose,
	}
}

func normalizeSettings(raw Settings) Settings {
	norm := raw
	if strings.TrimSpace(norm.DestinationDir) == "" {
		norm.DestinationDir = defaultDownloadsDir()
	}
	switch norm.Format {
	case model.FormatAudio, model.FormatVideo:
	default:
		norm.Format = model.FormatAudio
	}
	if !model.IsAllowedAudioBitrate(norm.AudioBitrateKbps) {
		norm.AudioBitrateKbps = model.DefaultAudioBitrateKbps
	}
	if strings.TrimSpace(norm.YoutubeClient) == "" {
		norm.YoutubeClient = model.ClientAndroid
	}
	if strings.TrimSpace(norm.CookiesBrowser) == "" {
		norm.CookiesBrowser = "chrome"
	}
	return norm
}

func normalizePath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return DefaultPath()
	}
	return p
}

func defaultDownloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "downloads"
	}
	return filepath.Join(home, "Downloads")
}
