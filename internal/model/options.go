// Package model holds the shared job vocabulary: options, commands, events,
// phases and progress snapshots. It has no dependencies on the other packages.
package model

import (
	"fmt"
	"strings"
)

// Format selects the output container; the value doubles as the container
// name passed to the downloader.
type Format string

const (
	FormatAudio Format = "mp3"
	FormatVideo Format = "mp4"
)

const DefaultAudioBitrateKbps = 192

// AllowedAudioBitrates is the mp3 bitrate ladder offered to users.
var AllowedAudioBitrates = []int{128, 192, 256, 320}

const (
	ClientAndroid = "android"
	ClientWeb     = "web"
	ClientIOS     = "ios"
	ClientTV      = "tv"
)

var allowedClients = map[string]bool{
	ClientAndroid: true,
	ClientWeb:     true,
	ClientIOS:     true,
	ClientTV:      true,
}

// allowedBrowsers mirrors the browsers yt-dlp can extract cookies from.
var allowedBrowsers = map[string]bool{
	"brave":    true,
	"chrome":   true,
	"chromium": true,
	"edge":     true,
	"firefox":  true,
	"opera":    true,
	"safari":   true,
	"vivaldi":  true,
	"whale":    true,
}

// JobOptions are the per-job download options. The zero value of optional
// fields means "use the default"; see the Resolved* accessors.
type JobOptions struct {
	DestinationDir        string `json:"destination_dir"`
	Format                Format `json:"format"`
	AudioBitrateKbps      int    `json:"audio_bitrate_kbps,omitempty"`
	YoutubeClient         string `json:"youtube_client,omitempty"`
	UseCookiesFromBrowser bool   `json:"use_cookies_from_browser,omitempty"`
	CookiesBrowser        string `json:"cookies_browser,omitempty"`
	UserAgent             string `json:"user_agent,omitempty"`
	Verbose               bool   `json:"verbose,omitempty"`
}

func (o JobOptions) Validate() error {
	if strings.TrimSpace(o.DestinationDir) == "" {
		return fmt.Errorf("destination directory is required")
	}
	switch o.Format {
	case FormatAudio, FormatVideo:
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", o.Format, FormatAudio, FormatVideo)
	}
	if o.AudioBitrateKbps != 0 && !IsAllowedAudioBitrate(o.AudioBitrateKbps) {
		return fmt.Errorf("audio bitrate %d kbps is not one of %v", o.AudioBitrateKbps, AllowedAudioBitrates)
	}
	if client := strings.ToLower(strings.TrimSpace(o.YoutubeClient)); client != "" && !allowedClients[client] {
		return fmt.Errorf("unknown youtube client %q", o.YoutubeClient)
	}
	if o.UseCookiesFromBrowser {
		browser := strings.ToLower(strings.TrimSpace(o.CookiesBrowser))
		if browser == "" {
			return fmt.Errorf("cookies from browser enabled but no browser selected")
		}
		if !allowedBrowsers[browser] {
			return fmt.Errorf("unsupported cookies browser %q", o.CookiesBrowser)
		}
	}
	return nil
}

func (o JobOptions) ResolvedBitrateKbps() int {
	if IsAllowedAudioBitrate(o.AudioBitrateKbps) {
		return o.AudioBitrateKbps
	}
	return DefaultAudioBitrateKbps
}

func (o JobOptions) ResolvedClient() string {
	client := strings.ToLower(strings.TrimSpace(o.YoutubeClient))
	if client == "" {
		return ClientAndroid
	}
	return client
}

func IsAllowedAudioBitrate(kbps int) bool {
	for _, allowed := range AllowedAudioBitrates {
		if kbps == allowed {
			return true
		}
	}
	return false
}
