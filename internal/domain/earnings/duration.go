package earnings

import (
	"regexp"
	"strconv"
	"strings"
)

// The crew types shift times as loose ranges: "9-2", "3:45pm-6", "Tue 9-12".
// ParseDurationHours turns those into elapsed hours, returning 0 for anything
// it cannot read.
var (
	reRange     = regexp.MustCompile(`(?i)(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)\s*[-–]\s*(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)`)
	reClockPair = regexp.MustCompile(`(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})`)
	reBarePair  = regexp.MustCompile(`(?i)(?:mon|tue|wed|thu|fri|sat|sun)?\s*(\d{1,2})\s*-\s*(\d{1,2})`)
	reMeridiem  = regexp.MustCompile(`\s*(am|pm)`)
)

func ParseDurationHours(when string) float64 {
	s := strings.ToLower(strings.TrimSpace(when))
	if s == "" {
		return 0
	}

	m := reRange.FindStringSubmatch(s)
	if m == nil {
		m = reClockPair.FindStringSubmatch(s)
	}
	if m == nil {
		m = reBarePair.FindStringSubmatch(s)
	}
	if m == nil {
		return 0
	}

	startTok, endTok := m[1], m[2]
	start := tokenMinutes(startTok, false)
	end := tokenMinutes(endTok, false)

	// No am/pm anywhere and a non-positive naive span means the end must be
	// afternoon: "9-2" is 9am-2pm, not negative five hours. A same-day range
	// never wraps past midnight.
	if !strings.Contains(startTok+endTok, "am") && !strings.Contains(startTok+endTok, "pm") && end <= start {
		end = tokenMinutes(endTok, true)
	}

	hours := float64(end-start) / 60
	if hours < 0 {
		return 0
	}
	return hours
}

// tokenMinutes converts one endpoint token to minutes since midnight.
func tokenMinutes(tok string, fallbackPM bool) int {
	hasAM := strings.Contains(tok, "am")
	hasPM := strings.Contains(tok, "pm")

	clock := strings.TrimSpace(reMeridiem.ReplaceAllString(tok, ""))
	hh, mm := clock, "0"
	if idx := strings.Index(clock, ":"); idx >= 0 {
		hh, mm = clock[:idx], clock[idx+1:]
	}
	h, _ := strconv.Atoi(strings.TrimSpace(hh))
	m, _ := strconv.Atoi(strings.TrimSpace(mm))

	pm := hasPM
	if !hasAM && !hasPM && fallbackPM {
		pm = true
	}
	if pm && h < 12 {
		h += 12
	}
	if hasAM && h == 12 {
		h = 0
	}
	return h*60 + m
}
