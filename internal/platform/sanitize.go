// Package platform covers the host-OS specifics the downloader depends on:
// filesystem-safe naming, external binary discovery, and process-tree
// termination.
package platform

import (
	"regexp"
	"strings"
)

const placeholderName = "untitled"

// The destination filesystem may be Windows even when the host is not, so
// names are always sanitized against the strictest rule set.
var (
	reInvalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	reTrailingRun  = regexp.MustCompile(`[. ]+$`)
	reReservedCOM  = regexp.MustCompile(`^COM[1-9]$`)
	reReservedLPT  = regexp.MustCompile(`^LPT[1-9]$`)
)

// SanitizeName maps an arbitrary title to a name acceptable on any supported
// filesystem. Total: never fails, never returns an empty string.
func SanitizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return placeholderName
	}

	replaced := reInvalidChars.ReplaceAllString(trimmed, "_")
	noTrailing := reTrailingRun.ReplaceAllString(replaced, "")

	upper := strings.ToUpper(noTrailing)
	reserved := upper == "CON" || upper == "PRN" || upper == "AUX" || upper == "NUL" ||
		reReservedCOM.MatchString(upper) || reReservedLPT.MatchString(upper)
	if reserved {
		noTrailing += "_"
	}

	if noTrailing == "" {
		return placeholderName
	}
	return noTrailing
}
