package progress

import (
	"strings"

	"yt-media-fetcher/internal/model"
)

// Classify maps one output line to a log severity. yt-dlp prefixes its own
// diagnostics with "ERROR:" / "WARNING:"; everything else is tool chatter.
func Classify(line string) model.LogLevel {
	l := strings.ToLower(line)
	if strings.Contains(l, "error:") {
		return model.LevelError
	}
	if strings.Contains(l, "warning:") {
		return model.LevelWarn
	}
	return model.LevelDebug
}
