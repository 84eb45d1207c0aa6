// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Mode selects how a period is fetched.
type Mode string

const (
	// ModeToday reads the daily announcement feed.
	ModeToday Mode = "today"
	// ModeRange queries the API by submission date.
	ModeRange Mode = "range"
)

// Period is a parsed fetch window. From and To are inclusive calendar days.
type Period struct {
	ID   string
	Mode Mode
	From time.Time
	To   time.Time
	Days int
}

var daysPattern = regexp.MustCompile(`^(\d+)d$`)

// ParsePeriod interprets a period argument relative to now. Accepted forms
// are "today", "week" (or "pastweek"), "Nd", "YYYY-MM-DD" and
// "YYYY-MM-DD:YYYY-MM-DD".
func ParsePeriod(s string, now time.Time) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := truncateDay(now)

	switch s {
	case "", "today":
		return Period{ID: today.Format(dateLayout), Mode: ModeToday, From: today, To: today, Days: 1}, nil
	case "week", "pastweek":
		return lastDays(today, 7), nil
	}

	if m := daysPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return Period{}, fmt.Errorf("invalid period %q: day count must be positive", s)
		}
		return lastDays(today, n), nil
	}

	if from, to, ok := strings.Cut(s, ":"); ok {
		f, err := time.Parse(dateLayout, strings.TrimSpace(from))
		if err != nil {
			return Period{}, fmt.Errorf("invalid period start %q: %w", from, err)
		}
		t, err := time.Parse(dateLayout, strings.TrimSpace(to))
		if err != nil {
			return Period{}, fmt.Errorf("invalid period end %q: %w", to, err)
		}
		if t.Before(f) {
			return Period{}, fmt.Errorf("invalid period %q: end before start", s)
		}
		return rangePeriod(f, t), nil
	}

	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: want today, week, Nd, YYYY-MM-DD or YYYY-MM-DD:YYYY-MM-DD", s)
	}
	return rangePeriod(d, d), nil
}

func lastDays(today time.Time, n int) Period {
	return rangePeriod(today.AddDate(0, 0, -(n-1)), today)
}

func rangePeriod(from, to time.Time) Period {
	days := int(to.Sub(from).Hours()/24) + 1
	id := from.Format(dateLayout)
	if days > 1 {
		id += ".." + to.Format(dateLayout)
	}
	return Period{ID: id, Mode: ModeRange, From: from, To: to, Days: days}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
