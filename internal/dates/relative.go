// Package dates resolves Portuguese relative time expressions ("amanhã às
// 10h", "próxima sexta", "30 minutos") into absolute timestamps.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHour   = 9
	defaultMinute = 0
)

var (
	hourPattern     = regexp.MustCompile(`(\d{1,2})[h:](\d{0,2})`)
	durationPattern = regexp.MustCompile(`(\d+)\s*(hora|minuto)`)
)

var weekdays = []struct {
	names []string
	day   time.Weekday
}{
	{[]string{"domingo"}, time.Sunday},
	{[]string{"segunda"}, time.Monday},
	{[]string{"terça", "terca"}, time.Tuesday},
	{[]string{"quarta"}, time.Wednesday},
	{[]string{"quinta"}, time.Thursday},
	{[]string{"sexta"}, time.Friday},
	{[]string{"sábado", "sabado"}, time.Saturday},
}

// ParseRelative converts a free-text temporal expression into an absolute
// timestamp. It is deterministic given (text, now) and never fails: an
// unrecognized expression resolves to now+1h. Day-based branches carry the
// explicit hh:mm from the text, or 09:00 when absent, with seconds zeroed.
func ParseRelative(text string, now time.Time) time.Time {
	lower := strings.ToLower(text)
	hour, minute := extractTime(lower)

	switch {
	case containsAny(lower, "agora", "já", "ja mesmo"):
		return now.Add(5 * time.Minute)
	case strings.Contains(lower, "daqui a pouco"):
		return now.Add(30 * time.Minute)
	case strings.Contains(lower, "depois de amanhã"), strings.Contains(lower, "depois de amanha"):
		return at(now.AddDate(0, 0, 2), hour, minute)
	case strings.Contains(lower, "amanhã"), strings.Contains(lower, "amanha"):
		return at(now.AddDate(0, 0, 1), hour, minute)
	case strings.Contains(lower, "hoje"):
		return at(now, hour, minute)
	case containsAny(lower, "próxima semana", "proxima semana"):
		return at(now.AddDate(0, 0, 7), hour, minute)
	}

	for _, wd := range weekdays {
		if !containsAny(lower, wd.names...) {
			continue
		}
		delta := int(wd.day-now.Weekday()+7) % 7
		if delta == 0 {
			delta = 7
		}
		if containsAny(lower, "próxima", "próximo", "proxima", "proximo") {
			delta += 7
		}
		return at(now.AddDate(0, 0, delta), hour, minute)
	}

	if m := durationPattern.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		if m[2] == "hora" {
			return now.Add(time.Duration(n) * time.Hour)
		}
		return now.Add(time.Duration(n) * time.Minute)
	}

	return now.Add(time.Hour)
}

func extractTime(lower string) (int, int) {
	m := hourPattern.FindStringSubmatch(lower)
	if m == nil {
		return defaultHour, defaultMinute
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour > 23 || minute > 59 {
		return defaultHour, defaultMinute
	}
	return hour, minute
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
