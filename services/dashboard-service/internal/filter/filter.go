// Package filter implements the pure query side of the dashboard: given the
// raw appointment set and the active view parameters, it selects the subset
// to display. Filtering never mutates its inputs and holds no state, so the
// same parameters applied to the same set always yield the same result.
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/salonworks/salonboard/services/dashboard-service/internal/model"
)

// Mode selects the date window anchored at Params.Anchor.
type Mode string

const (
	ModeDay   Mode = "day"
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

// Bucket is a coarse time-of-day classification derived from the start time.
type Bucket string

const (
	BucketAll       Bucket = "all"
	BucketMorning   Bucket = "morning"   // [06:00, 12:00)
	BucketAfternoon Bucket = "afternoon" // [12:00, 18:00)
	BucketEvening   Bucket = "evening"   // [18:00, 06:00), wraps midnight
)

// All is the sentinel for the status and professional filters.
const All = "all"

// Params are the ephemeral view parameters owned by the dashboard
// controller. They are never persisted.
type Params struct {
	Mode         Mode
	Anchor       time.Time
	Query        string
	Status       string // a model.Status value or All
	Professional string // a professional ID or All
	Bucket       Bucket
}

// Defaults returns the view a fresh dashboard opens with: today, all
// statuses, all professionals, all times of day.
func Defaults(now time.Time) Params {
	return Params{
		Mode:         ModeDay,
		Anchor:       model.DateOnly(now),
		Status:       All,
		Professional: All,
		Bucket:       BucketAll,
	}
}

// NameIndex resolves roster IDs to display names for text matching.
type NameIndex struct {
	Clients       map[string]string
	Professionals map[string]string
	Services      map[string]string
}

// Apply returns the appointments matching every active predicate. The input
// slice is not modified.
func Apply(raw []model.Appointment, p Params, names NameIndex) []model.Appointment {
	query := strings.ToLower(strings.TrimSpace(p.Query))

	out := make([]model.Appointment, 0, len(raw))
	for _, appt := range raw {
		if !matchWindow(appt.Date, p) {
			continue
		}
		if !matchQuery(appt, query, names) {
			continue
		}
		if p.Status != All && string(appt.Status) != p.Status {
			continue
		}
		if p.Professional != All && appt.ProfessionalID != p.Professional {
			continue
		}
		if !matchBucket(appt.StartTime, p.Bucket) {
			continue
		}
		out = append(out, appt)
	}
	return out
}

// Shift moves the anchor by delta steps of the active mode: days, weeks, or
// calendar months.
func Shift(anchor time.Time, mode Mode, delta int) time.Time {
	switch mode {
	case ModeWeek:
		return anchor.AddDate(0, 0, 7*delta)
	case ModeMonth:
		return anchor.AddDate(0, delta, 0)
	default:
		return anchor.AddDate(0, 0, delta)
	}
}

// WeekStart returns the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	day := model.DateOnly(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func matchWindow(date time.Time, p Params) bool {
	switch p.Mode {
	case ModeWeek:
		start := WeekStart(p.Anchor)
		end := start.AddDate(0, 0, 7)
		day := model.DateOnly(date)
		return !day.Before(start) && day.Before(end)
	case ModeMonth:
		d, a := date.UTC(), p.Anchor.UTC()
		return d.Year() == a.Year() && d.Month() == a.Month()
	default:
		return model.SameDay(date, p.Anchor)
	}
}

func matchQuery(appt model.Appointment, query string, names NameIndex) bool {
	if query == "" {
		return true
	}
	for _, name := range []string{
		names.Clients[appt.ClientID],
		names.Professionals[appt.ProfessionalID],
		names.Services[appt.ServiceID],
	} {
		if strings.Contains(strings.ToLower(name), query) {
			return true
		}
	}
	return false
}

func matchBucket(startTime string, want Bucket) bool {
	if want == BucketAll {
		return true
	}
	got, ok := BucketFor(startTime)
	return ok && got == want
}

// BucketFor classifies a 15:04 clock string by its hour. It returns false
// when the start time is missing or malformed; such appointments match only
// the "all" bucket.
func BucketFor(startTime string) (Bucket, bool) {
	hh, _, found := strings.Cut(startTime, ":")
	if !found {
		return "", false
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return "", false
	}
	switch {
	case hour >= 6 && hour < 12:
		return BucketMorning, true
	case hour >= 12 && hour < 18:
		return BucketAfternoon, true
	default:
		return BucketEvening, true
	}
}
