package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"yt-media-fetcher/internal/config"
	"yt-media-fetcher/internal/model"
)

func runSettings(args []string) error {
	if len(args) == 0 {
		printSettingsUsage()
		return nil
	}
	switch args[0] {
	case "show":
		return runSettingsShow(args[1:])
	case "set":
		return runSettingsSet(args[1:])
	case "help", "-h", "--help":
		printSettingsUsage()
		return nil
	default:
		printSettingsUsage()
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

func runSettingsShow(args []string) error {
	fs := flag.NewFlagSet("settings show", flag.ContinueOnError)
	path := fs.String("settings", "", "settings file path (default: user config dir)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := config.Load(*path)
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"settings_path": settingsPathLabel(*path),
			"settings":      settings,
		})
	}

	fmt.Printf("settings: %s\n", settingsPathLabel(*path))
	fmt.Printf("destination_dir: %s\n", settings.DestinationDir)
	fmt.Printf("format: %s\n", settings.Format)
	fmt.Printf("audio_bitrate_kbps: %d\n", settings.AudioBitrateKbps)
	fmt.Printf("youtube_client: %s\n", settings.YoutubeClient)
	fmt.Printf("use_cookies_from_browser: %t\n", settings.UseCookiesFromBrowser)
	fmt.Printf("cookies_browser: %s\n", settings.CookiesBrowser)
	if settings.UserAgent == "" {
		fmt.Println("user_agent: (default)")
	} else {
		fmt.Printf("user_agent: %s\n", settings.UserAgent)
	}
	fmt.Printf("verbose: %t\n", settings.Verbose)
	return nil
}

func runSettingsSet(args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ContinueOnError)
	path := fs.String("settings", "", "settings file path (default: user config dir)")
	dest := fs.String("dest", "", "destination directory (empty keeps current)")
	format := fs.String("format", "", "output format: mp3|mp4 (empty keeps current)")
	bitrate := fs.Int("bitrate", 0, "mp3 bitrate in kbps: 128|192|256|320 (0 keeps current)")
	client := fs.String("client", "", "youtube player client: android|web|ios|tv (empty keeps current)")
	browserCookies := fs.String("browser-cookies", "", "use cookies from a browser: on|off (empty keeps current)")
	cookiesBrowser := fs.String("cookies-browser", "", "browser to read cookies from (empty keeps current)")
	userAgent := fs.String("user-agent", "", "custom User-Agent header (empty keeps current)")
	clearUserAgent := fs.Bool("clear-user-agent", false, "reset the User-Agent to default")
	verbose := fs.String("verbose", "", "verbose yt-dlp output: on|off (empty keeps current)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := config.Load(*path)
	if err != nil {
		return err
	}

	if v := strings.TrimSpace(*dest); v != "" {
		settings.DestinationDir = v
	}
	if v := strings.ToLower(strings.TrimSpace(*format)); v != "" {
		if v != string(model.FormatAudio) && v != string(model.FormatVideo) {
			return errors.New("--format must be mp3 or mp4")
		}
		settings.Format = model.Format(v)
	}
	if *bitrate != 0 {
		if !model.IsAllowedAudioBitrate(*bitrate) {
			return errors.New("--bitrate must be one of 128, 192, 256, 320")
		}
		settings.AudioBitrateKbps = *bitrate
	}
	if v := strings.ToLower(strings.TrimSpace(*client)); v != "" {
		settings.YoutubeClient = v
	}
	if v, set, err := parseOnOff("--browser-cookies", *browserCookies); err != nil {
		return err
	} else if set {
		settings.UseCookiesFromBrowser = v
	}
	if v := strings.ToLower(strings.TrimSpace(*cookiesBrowser)); v != "" {
		settings.CookiesBrowser = v
	}
	if v := strings.TrimSpace(*userAgent); v != "" {
		settings.UserAgent = v
	}
	if *clearUserAgent {
		settings.UserAgent = ""
	}
	if v, set, err := parseOnOff("--verbose", *verbose); err != nil {
		return err
	} else if set {
		settings.Verbose = v
	}

	if err := settings.JobOptions().Validate(); err != nil {
		return err
	}
	if err := config.Save(*path, settings); err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(settings)
	}
	fmt.Printf("updated settings in %s\n", settingsPathLabel(*path))
	return nil
}

func parseOnOff(flagName, value string) (bool, bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return false, false, nil
	case "on":
		return true, true, nil
	case "off":
		return false, true, nil
	default:
		return false, false, fmt.Errorf("%s must be on or off", flagName)
	}
}

func settingsPathLabel(path string) string {
	if strings.TrimSpace(path) == "" {
		return config.DefaultPath()
	}
	return strings.TrimSpace(path)
}

func printSettingsUsage() {
	fmt.Println("settings commands:")
	fmt.Println("  settings show")
	fmt.Println("  settings set [--dest DIR] [--format mp3|mp4] [--bitrate N]")
	fmt.Println("               [--client NAME] [--browser-cookies on|off] [--cookies-browser NAME]")
	fmt.Println("               [--user-agent UA | --clear-user-agent] [--verbose on|off]")
}
