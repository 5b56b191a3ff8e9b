package cli

import (
	"path/filepath"
	"testing"

	"yt-media-fetcher/internal/config"
	"yt-media-fetcher/internal/model"
)

func TestSettingsSetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	dest := t.TempDir()

	err := Run([]string{
		"settings", "set",
		"--settings", path,
		"--dest", dest,
		"--format", "mp4",
		"--client", "tv",
		"--browser-cookies", "on",
		"--cookies-browser", "firefox",
		"--verbose", "on",
	})
	if err != nil {
		t.Fatalf("settings set failed: %v", err)
	}

	settings, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if settings.DestinationDir != dest {
		t.Fatalf("dest not persisted: %q", settings.DestinationDir)
	}
	if settings.Format != model.FormatVideo {
		t.Fatalf("format not persisted: %q", settings.Format)
	}
	if settings.YoutubeClient != "tv" {
		t.Fatalf("client not persisted: %q", settings.YoutubeClient)
	}
	if !settings.UseCookiesFromBrowser || settings.CookiesBrowser != "firefox" {
		t.Fatalf("cookie settings not persisted: %+v", settings)
	}
	if !settings.Verbose {
		t.Fatal("verbose not persisted")
	}
}

func TestSettingsSetRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	if err := Run([]string{"settings", "set", "--settings", path, "--format", "flac"}); err == nil {
		t.Fatal("bad format should be rejected")
	}
	if err := Run([]string{"settings", "set", "--settings", path, "--bitrate", "123"}); err == nil {
		t.Fatal("off-ladder bitrate should be rejected")
	}
	if err := Run([]string{"settings", "set", "--settings", path, "--browser-cookies", "maybe"}); err == nil {
		t.Fatal("bad on/off value should be rejected")
	}
}

func TestSettingsSetClientValidatedThroughOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := Run([]string{"settings", "set", "--settings", path, "--client", "betamax"}); err == nil {
		t.Fatal("unknown client should be rejected")
	}
}
