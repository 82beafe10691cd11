package stats

import (
	"testing"
	"time"

	"github.com/salonworks/salonboard/services/dashboard-service/internal/model"
)

var today = time.Date(2026, time.August, 26, 0, 0, 0, 0, time.UTC)

func appt(proID string, date time.Time, status model.Status) model.Appointment {
	return model.Appointment{
		ID:             "x",
		ProfessionalID: proID,
		Date:           date,
		StartTime:      "09:00",
		Status:         status,
	}
}

func TestCompute_OccupationRate(t *testing.T) {
	raw := []model.Appointment{
		appt("p1", today, model.StatusConfirmed),
		appt("p1", today, model.StatusConfirmed),
		appt("p1", today, model.StatusPending),
		appt("p1", today, model.StatusCancelled),
	}

	s := Compute(raw, nil, today, 45)
	if s.TotalToday != 4 {
		t.Fatalf("expected 4 today, got %d", s.TotalToday)
	}
	if s.ConfirmedToday != 2 {
		t.Fatalf("expected 2 confirmed, got %d", s.ConfirmedToday)
	}
	if s.OccupationRate != 50 {
		t.Fatalf("expected occupation rate 50, got %v", s.OccupationRate)
	}
}

func TestCompute_EmptyDayHasZeroRate(t *testing.T) {
	s := Compute(nil, nil, today, 45)
	if s.TotalToday != 0 || s.OccupationRate != 0 {
		t.Fatalf("expected zeroes, got total=%d rate=%v", s.TotalToday, s.OccupationRate)
	}
}

func TestCompute_CountsOnlyToday(t *testing.T) {
	yesterday := today.AddDate(0, 0, -1)
	raw := []model.Appointment{
		appt("p1", today, model.StatusFinished),
		appt("p1", today, model.StatusNoShow),
		appt("p1", yesterday, model.StatusCancelled),
		appt("p1", yesterday, model.StatusConfirmed),
	}

	s := Compute(raw, nil, today, 45)
	if s.TotalToday != 2 {
		t.Fatalf("expected 2 today, got %d", s.TotalToday)
	}
	if s.FinishedToday != 1 || s.NoShowToday != 1 {
		t.Fatalf("unexpected sub-counts: finished=%d no_show=%d", s.FinishedToday, s.NoShowToday)
	}
	if s.CancelledToday != 0 {
		t.Fatalf("yesterday's cancellation leaked into today: %d", s.CancelledToday)
	}
}

func TestCompute_TopProfessionalRanksWholeSet(t *testing.T) {
	yesterday := today.AddDate(0, 0, -1)
	roster := []model.Professional{
		{ID: "p1", Name: "Ana"},
		{ID: "p2", Name: "Bia"},
	}
	// p2 leads overall even though p1 leads today.
	raw := []model.Appointment{
		appt("p1", today, model.StatusConfirmed),
		appt("p2", yesterday, model.StatusFinished),
		appt("p2", yesterday, model.StatusFinished),
	}

	s := Compute(raw, roster, today, 45)
	if s.TopProfessionalID != "p2" || s.TopProfessionalCount != 2 {
		t.Fatalf("expected p2 with 2, got %s with %d", s.TopProfessionalID, s.TopProfessionalCount)
	}
	if s.TopProfessionalName != "Bia" {
		t.Fatalf("expected name Bia, got %q", s.TopProfessionalName)
	}
}

func TestCompute_TopProfessionalTieBreaksByRosterOrder(t *testing.T) {
	roster := []model.Professional{
		{ID: "p2", Name: "Bia"},
		{ID: "p1", Name: "Ana"},
	}
	raw := []model.Appointment{
		appt("p1", today, model.StatusConfirmed),
		appt("p2", today, model.StatusConfirmed),
	}

	for i := 0; i < 10; i++ {
		s := Compute(raw, roster, today, 45)
		if s.TopProfessionalID != "p2" {
			t.Fatalf("tie-break must pick first roster entry, got %s", s.TopProfessionalID)
		}
	}
}

func TestCompute_AverageServiceTimeIsConfigured(t *testing.T) {
	s := Compute(nil, nil, today, 30)
	if s.AverageServiceMinutes != 30 {
		t.Fatalf("expected configured 30, got %d", s.AverageServiceMinutes)
	}
}
