// Package progress turns raw yt-dlp output lines into structured updates.
// Parsing is total: a line that matches nothing yields nil, never an error.
package progress

import (
	"regexp"
	"strconv"
	"strings"

	"yt-media-fetcher/internal/model"
)

// titleMarker is printed by our own `--print before_dl:[title] %(title)s` arg.
const titleMarker = "[title] "

const downloadMarker = "[download]"

var (
	reItem  = regexp.MustCompile(`(?i)Downloading item\s+(\d+)\s+of\s+(\d+)`)
	rePct   = regexp.MustCompile(`\[download\]\s+([0-9]+(?:\.[0-9]+)?)%`)
	reSpeed = regexp.MustCompile(`(?i)\bat\s+(\S+)\s+ETA`)
	reETA   = regexp.MustCompile(`(?i)\bETA\s+([0-9:]+)`)
)

// ParseLine extracts a partial progress update from one output line.
// Patterns are checked in order; first match wins. Returns nil when the line
// carries nothing useful.
func ParseLine(line string) *model.Snapshot {
	l := strings.TrimSpace(line)
	if l == "" {
		return nil
	}

	if strings.HasPrefix(l, titleMarker) {
		title := strings.TrimSpace(l[len(titleMarker):])
		if title == "" {
			return nil
		}
		return &model.Snapshot{Title: title}
	}

	if m := reItem.FindStringSubmatch(l); len(m) > 2 {
		index, errIdx := strconv.Atoi(m[1])
		count, errCnt := strconv.Atoi(m[2])
		if errIdx == nil && errCnt == nil {
			return &model.Snapshot{ItemIndex: index, ItemCount: count}
		}
	}

	// Typical download progress:
	// [download]  12.3% of 10.00MiB at 1.23MiB/s ETA 00:32
	if !strings.HasPrefix(l, downloadMarker) {
		return nil
	}

	var snap model.Snapshot
	if m := rePct.FindStringSubmatch(l); len(m) > 1 {
		if pct, err := strconv.ParseFloat(m[1], 64); err == nil {
			snap.Percent = &pct
		}
	}
	if m := reSpeed.FindStringSubmatch(l); len(m) > 1 {
		snap.Speed = m[1]
	}
	if m := reETA.FindStringSubmatch(l); len(m) > 1 {
		snap.ETA = m[1]
		if secs, ok := ParseETASeconds(m[1]); ok {
			snap.ETASeconds = &secs
		}
	}

	// A progress-marker line with no recognizable fields is not useful.
	if snap.IsZero() {
		return nil
	}
	return &snap
}

// ParseETASeconds converts an mm:ss or h:mm:ss token to total seconds.
func ParseETASeconds(eta string) (int, bool) {
	parts := strings.Split(eta, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, false
		}
		nums = append(nums, n)
	}
	if len(nums) == 2 {
		return nums[0]*60 + nums[1], true
	}
	return nums[0]*3600 + nums[1]*60 + nums[2], true
}

// FormatETA renders total seconds as mm:ss, or h:mm:ss from one hour up.
func FormatETA(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return strconv.Itoa(hours) + ":" + pad2(minutes) + ":" + pad2(seconds)
	}
	return pad2(minutes) + ":" + pad2(seconds)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
