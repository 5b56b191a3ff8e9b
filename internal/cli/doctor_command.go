package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yt-media-fetcher/internal/config"
	"yt-media-fetcher/internal/platform"
)

type doctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type doctorResult struct {
	OK     bool          `json:"ok"`
	Checks []doctorCheck `json:"checks"`
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	settingsPath := fs.String("settings", "", "settings file path (default: user config dir)")
	binDir := fs.String("bin-dir", "", "extra directory searched for yt-dlp/ffmpeg before PATH")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	var binDirs []string
	if strings.TrimSpace(*binDir) != "" {
		binDirs = append(binDirs, strings.TrimSpace(*binDir))
	}
	res := doctor(*settingsPath, binDirs)

	if *jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		for _, c := range res.Checks {
			status := "ok"
			if !c.OK {
				status = "fail"
			}
			fmt.Printf("%s: %s (%s)\n", c.Name, status, c.Message)
		}
	}
	if !res.OK {
		return errors.New("doctor checks failed")
	}
	if !*jsonOut {
		fmt.Println("doctor: all checks passed")
	}
	return nil
}

func doctor(settingsPath string, binDirs []string) doctorResult {
	res := doctorResult{OK: true}
	add := func(name string, ok bool, message string) {
		res.Checks = append(res.Checks, doctorCheck{Name: name, OK: ok, Message: message})
		if !ok {
			res.OK = false
		}
	}

	status := platform.BinaryStatus(binDirs...)
	for _, name := range []string{"yt-dlp", "ffmpeg"} {
		if path := status[name]; path != "" {
			add(name, true, path)
		} else {
			add(name, false, "not found on PATH or in bundled locations")
		}
	}
	// ffprobe is optional; report it without failing the run.
	if path := status["ffprobe"]; path != "" {
		add("ffprobe", true, path)
	} else {
		add("ffprobe", true, "not found (optional)")
	}

	settings, err := config.Load(settingsPath)
	if err != nil {
		add("settings", false, err.Error())
		return res
	}
	add("settings", true, settingsPathLabel(settingsPath))
	ok, message := dirWritable(settings.DestinationDir)
	add("destination", ok, message)
	ok, message = dirWritable(config.DataDir())
	add("data_dir", ok, message)
	return res
}

// dirWritable proves write access by creating and removing a probe file.
func dirWritable(dir string) (bool, string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Sprintf("%s: %v", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return false, fmt.Sprintf("%s: not writable: %v", dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return true, filepath.Clean(dir)
}
