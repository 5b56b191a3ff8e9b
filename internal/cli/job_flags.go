package cli

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"yt-media-fetcher/internal/config"
	"yt-media-fetcher/internal/model"
)

// jobFlags are the per-run option overrides shared by get, batch and tui.
// Each flag's zero value means "keep the saved setting".
type jobFlags struct {
	settingsPath *string
	dataDir      *string
	binDir       *string

	dest           *string
	format         *string
	bitrate        *int
	client         *string
	browserCookies *string
	cookiesBrowser *string
	userAgent      *string
	verbose        *bool
}

func registerJobFlags(fs *flag.FlagSet) *jobFlags {
	return &jobFlags{
		settingsPath:   fs.String("settings", "", "settings file path (default: user config dir)"),
		dataDir:        fs.String("data-dir", "", "runtime data directory for lock and job logs (default: user cache dir)"),
		binDir:         fs.String("bin-dir", "", "extra directory searched for yt-dlp/ffmpeg before PATH"),
		dest:           fs.String("dest", "", "destination directory"),
		format:         fs.String("format", "", "output format: mp3|mp4"),
		bitrate:        fs.Int("bitrate", 0, "mp3 bitrate in kbps: 128|192|256|320"),
		client:         fs.String("client", "", "youtube player client: android|web|ios|tv"),
		browserCookies: fs.String("browser-cookies", "", "use cookies from a browser: on|off"),
		cookiesBrowser: fs.String("cookies-browser", "", "browser to read cookies from (chrome, firefox, ...)"),
		userAgent:      fs.String("user-agent", "", "custom User-Agent header"),
		verbose:        fs.Bool("verbose", false, "pass --verbose to yt-dlp and show raw output"),
	}
}

// resolve loads the saved settings, applies the flag overrides, and persists
// the result so the next run starts from these choices.
func (f *jobFlags) resolve() (model.JobOptions, error) {
	settings, err := config.Load(*f.settingsPath)
	if err != nil {
		return model.JobOptions{}, err
	}

	if v := strings.TrimSpace(*f.dest); v != "" {
		settings.DestinationDir = v
	}
	if v := strings.TrimSpace(*f.format); v != "" {
		settings.Format = model.Format(strings.ToLower(v))
	}
	if *f.bitrate != 0 {
		settings.AudioBitrateKbps = *f.bitrate
	}
	if v := strings.TrimSpace(*f.client); v != "" {
		settings.YoutubeClient = strings.ToLower(v)
	}
	if v := strings.ToLower(strings.TrimSpace(*f.browserCookies)); v != "" {
		switch v {
		case "on":
			settings.UseCookiesFromBrowser = true
		case "off":
			settings.UseCookiesFromBrowser = false
		default:
			return model.JobOptions{}, fmt.Errorf("--browser-cookies must be on or off")
		}
	}
	if v := strings.TrimSpace(*f.cookiesBrowser); v != "" {
		settings.CookiesBrowser = strings.ToLower(v)
	}
	if v := strings.TrimSpace(*f.userAgent); v != "" {
		settings.UserAgent = v
	}
	if *f.verbose {
		settings.Verbose = true
	}

	opts := settings.JobOptions()
	if err := opts.Validate(); err != nil {
		return model.JobOptions{}, err
	}
	if err := config.Save(*f.settingsPath, settings); err != nil {
		return model.JobOptions{}, fmt.Errorf("persist settings: %w", err)
	}
	return opts, nil
}

func (f *jobFlags) resolvedDataDir() string {
	if v := strings.TrimSpace(*f.dataDir); v != "" {
		return v
	}
	return config.DataDir()
}

func (f *jobFlags) binDirs() []string {
	if v := strings.TrimSpace(*f.binDir); v != "" {
		return []string{v}
	}
	return nil
}

func (f *jobFlags) logDir() string {
	return filepath.Join(f.resolvedDataDir(), "logs")
}
