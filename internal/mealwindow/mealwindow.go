// Package mealwindow decides whether a kitchen's meal window has closed
// and whether a dispatch request may proceed. Every function is a pure
// function of its arguments; callers inject the current time so nothing
// here reads the wall clock.
package mealwindow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/platewise/console-api/internal/enum"
)

// HoursRange is one configured service window, with 24-hour "HH:MM"
// start and end times as the backend stores them.
type HoursRange struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// OnDemandRange covers the on-demand window, which may be flagged as
// always open instead of carrying times.
type OnDemandRange struct {
	HoursRange
	IsAlwaysOpen bool `json:"is_always_open"`
}

// OperatingHours is a kitchen's configured windows. Any window may be
// absent; absence means the window is unconfigured, not closed.
type OperatingHours struct {
	Lunch    *HoursRange    `json:"lunch,omitempty"`
	Dinner   *HoursRange    `json:"dinner,omitempty"`
	OnDemand *OnDemandRange `json:"on_demand,omitempty"`
}

// EndTime is a parsed window end, as hour and minute of day.
type EndTime struct {
	Hour   int
	Minute int
}

func (e EndTime) minutes() int { return e.Hour*60 + e.Minute }

// windowRange picks the configured range for a meal window. Windows other
// than LUNCH and DINNER are never dispatch-gated here.
func windowRange(hours OperatingHours, window string) *HoursRange {
	switch window {
	case enum.MealWindowLunch:
		return hours.Lunch
	case enum.MealWindowDinner:
		return hours.Dinner
	}
	return nil
}

// WindowEndTime returns the configured end time for the window, or
// ok=false when the kitchen has no configured hours for it.
func WindowEndTime(hours OperatingHours, window string) (EndTime, bool) {
	r := windowRange(hours, window)
	if r == nil {
		return EndTime{}, false
	}
	h, m, err := parseHHMM(r.EndTime)
	if err != nil {
		return EndTime{}, false
	}
	return EndTime{Hour: h, Minute: m}, true
}

// HasWindowEnded reports whether the window's order-acceptance period has
// ended as of now. An absent or unparseable end time yields false: missing
// configuration must never silently permit a dispatch, so the window is
// treated as never ending.
func HasWindowEnded(hours OperatingHours, window string, now time.Time) bool {
	end, ok := WindowEndTime(hours, window)
	if !ok {
		return false
	}
	return minutesOfDay(now) >= end.minutes()
}

// TimeRemaining renders how long until the window ends: "Now" once it has
// ended, otherwise a compact duration such as "2h 15m" or "15m". An
// unconfigured window never ends, so it reads "N/A" rather than "Now".
func TimeRemaining(hours OperatingHours, window string, now time.Time) string {
	end, ok := WindowEndTime(hours, window)
	if !ok {
		return "N/A"
	}
	remaining := end.minutes() - minutesOfDay(now)
	if remaining <= 0 {
		return "Now"
	}
	if remaining < 60 {
		return fmt.Sprintf("%dm", remaining)
	}
	return fmt.Sprintf("%dh %dm", remaining/60, remaining%60)
}

// FormattedEndTime renders the configured end time on a 12-hour clock
// ("3:00 PM"), or "N/A" when the window is unconfigured.
func FormattedEndTime(hours OperatingHours, window string) string {
	end, ok := WindowEndTime(hours, window)
	if !ok {
		return "N/A"
	}
	meridiem := "AM"
	h := end.Hour
	if h >= 12 {
		meridiem = "PM"
	}
	if h == 0 {
		h = 12
	} else if h > 12 {
		h -= 12
	}
	return fmt.Sprintf("%d:%02d %s", h, end.Minute, meridiem)
}

// CanDispatch is the single authority on whether a dispatch request may
// proceed: an explicit operator override wins, otherwise the window must
// have ended. Callers must route through this function rather than
// re-combining the override themselves.
func CanDispatch(hours OperatingHours, window string, now time.Time, forceDispatch bool) bool {
	if forceDispatch {
		return true
	}
	return HasWindowEnded(hours, window, now)
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func parseHHMM(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hour, minute, nil
}
