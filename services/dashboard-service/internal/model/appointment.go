package model

import "time"

// Appointment is the unit of work on the dashboard. Date carries only the
// calendar day (midnight UTC); StartTime and EndTime are local clock strings
// in 15:04 form because the salon never schedules across timezones.
type Appointment struct {
	ID             string
	ClientID       string
	ProfessionalID string
	ServiceID      string
	Date           time.Time
	StartTime      string
	EndTime        string
	Status         Status
	Price          float64
	Notes          string
	CreatedAt      time.Time
}

// AppointmentDraft is the payload for creating an appointment. The store
// assigns the ID and defaults the status to pending.
type AppointmentDraft struct {
	ClientID       string
	ProfessionalID string
	ServiceID      string
	Date           time.Time
	StartTime      string
	EndTime        string
	Price          float64
	Notes          string
}

// AppointmentPatch is a partial update. Nil fields are left untouched.
type AppointmentPatch struct {
	ClientID       *string
	ProfessionalID *string
	ServiceID      *string
	Date           *time.Time
	StartTime      *string
	EndTime        *string
	Status         *Status
	Price          *float64
	Notes          *string
}

// DateOnly truncates t to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day, ignoring
// time of day.
func SameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
