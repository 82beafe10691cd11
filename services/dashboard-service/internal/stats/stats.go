// Package stats derives the KPI figures shown above the appointment list.
// The daily numbers always cover today regardless of the window the list is
// showing; the two views are deliberately decoupled.
package stats

import (
	"time"

	"github.com/salonworks/salonboard/services/dashboard-service/internal/model"
)

// Summary is recomputed from the raw set on every change and never stored.
type Summary struct {
	TotalToday     int
	ConfirmedToday int
	CancelledToday int
	NoShowToday    int
	FinishedToday  int

	// OccupationRate is the percentage of today's appointments that are
	// confirmed, 0 when there are none.
	OccupationRate float64

	// TopProfessional ranks over the entire raw set, not just today.
	TopProfessionalID    string
	TopProfessionalName  string
	TopProfessionalCount int

	// AverageServiceMinutes is a configured default, not derived from data.
	// Real computation is pending a source for actual service durations.
	AverageServiceMinutes int
}

// Compute aggregates raw into a Summary. today supplies the reference day;
// roster supplies the professional ranking order, which also breaks ties:
// with equal counts the professional listed first wins.
func Compute(raw []model.Appointment, roster []model.Professional, today time.Time, avgServiceMinutes int) Summary {
	s := Summary{AverageServiceMinutes: avgServiceMinutes}

	for _, appt := range raw {
		if !model.SameDay(appt.Date, today) {
			continue
		}
		s.TotalToday++
		switch appt.Status {
		case model.StatusConfirmed:
			s.ConfirmedToday++
		case model.StatusCancelled:
			s.CancelledToday++
		case model.StatusNoShow:
			s.NoShowToday++
		case model.StatusFinished:
			s.FinishedToday++
		}
	}

	if s.TotalToday > 0 {
		s.OccupationRate = float64(s.ConfirmedToday) / float64(s.TotalToday) * 100
	}

	counts := make(map[string]int, len(roster))
	for _, appt := range raw {
		counts[appt.ProfessionalID]++
	}
	for _, pro := range roster {
		// Strict > keeps the earliest roster entry on ties.
		if counts[pro.ID] > s.TopProfessionalCount {
			s.TopProfessionalID = pro.ID
			s.TopProfessionalName = pro.Name
			s.TopProfessionalCount = counts[pro.ID]
		}
	}

	return s
}
