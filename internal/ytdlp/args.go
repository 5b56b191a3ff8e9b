// Package ytdlp owns the command-line wire contract with the external fetch
// and transcode tools: argument vectors, the metadata probe, and line-streamed
// process supervision.
package ytdlp

import (
	"fmt"
	"path/filepath"
	"strings"

	"yt-media-fetcher/internal/model"
)

// Prefer a <=1080p mp4+m4a pair, degrading step by step to whatever is
// available, merged into one container.
const videoFormatSelector = "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[height<=1080][ext=mp4]/bestvideo[height<=1080]+bestaudio/best"

// CommonArgs builds the flags shared by probe and download invocations.
// Options are assumed validated.
func CommonArgs(opts model.JobOptions, ffmpegPath string) []string {
	args := []string{"--no-color", "--progress", "--newline", "--windows-filenames"}
	args = append(args, "--ffmpeg-location", filepath.Dir(ffmpegPath))
	args = append(args, "--extractor-args", "youtube:player_client="+opts.ResolvedClient())

	if opts.UseCookiesFromBrowser {
		args = append(args, "--cookies-from-browser", strings.ToLower(strings.TrimSpace(opts.CookiesBrowser)))
	}
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		args = append(args, "--user-agent", ua)
	}
	if opts.Verbose {
		args = append(args, "--verbose")
	} else {
		args = append(args, "--no-warnings")
	}

	// Title print the progress parser picks up as its "[title] " marker.
	args = append(args, "--print", "before_dl:[title] %(title)s")

	return args
}

// DownloadArgs builds the full argument vector for one download, minus the
// trailing URL.
func DownloadArgs(opts model.JobOptions, ffmpegPath string, playlist bool, outputDir string) []string {
	args := CommonArgs(opts, ffmpegPath)

	args = append(args, "-o", filepath.Join(outputDir, "%(title)s.%(ext)s"))
	if !playlist {
		args = append(args, "--no-playlist")
	}

	if opts.Format == model.FormatAudio {
		args = append(args,
			"--extract-audio",
			"--audio-format", "mp3",
			"--audio-quality", fmt.Sprintf("%dK", opts.ResolvedBitrateKbps()),
			"--embed-thumbnail",
			"--add-metadata",
		)
	} else {
		args = append(args,
			"-f", videoFormatSelector,
			"--merge-output-format", "mp4",
			"--embed-thumbnail",
			"--add-metadata",
		)
	}

	return args
}

// ProbeArgs builds the metadata-only invocation for playlist detection.
func ProbeArgs(opts model.JobOptions, ffmpegPath, url string) []string {
	args := CommonArgs(opts, ffmpegPath)
	args = append(args, "--dump-single-json", "--flat-playlist", "--skip-download", url)
	return args
}
