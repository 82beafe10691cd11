package filter

import (
	"testing"
	"time"

	"github.com/salonworks/salonboard/services/dashboard-service/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func appt(id string, date time.Time, start string) model.Appointment {
	return model.Appointment{
		ID:             id,
		ClientID:       "c1",
		ProfessionalID: "p1",
		ServiceID:      "s1",
		Date:           date,
		StartTime:      start,
		Status:         model.StatusPending,
	}
}

func ids(appts []model.Appointment) []string {
	out := make([]string, 0, len(appts))
	for _, a := range appts {
		out = append(out, a.ID)
	}
	return out
}

func baseParams(anchor time.Time) Params {
	p := Defaults(anchor)
	p.Anchor = anchor
	return p
}

func TestApply_DayWindow(t *testing.T) {
	anchor := day(2026, time.August, 26)
	raw := []model.Appointment{
		appt("same-day", anchor, "09:00"),
		appt("day-before", day(2026, time.August, 25), "09:00"),
		appt("day-after", day(2026, time.August, 27), "09:00"),
	}

	got := Apply(raw, baseParams(anchor), NameIndex{})
	if len(got) != 1 || got[0].ID != "same-day" {
		t.Fatalf("expected only same-day, got %v", ids(got))
	}
}

func TestApply_WeekWindowSundayAligned(t *testing.T) {
	// 2026-08-26 is a Wednesday; its week runs Sunday 08-23 through Saturday 08-29.
	anchor := day(2026, time.August, 26)
	p := baseParams(anchor)
	p.Mode = ModeWeek

	raw := []model.Appointment{
		appt("week-start", day(2026, time.August, 23), "09:00"),
		appt("week-end", day(2026, time.August, 29), "09:00"),
		appt("before-week", day(2026, time.August, 22), "09:00"),
		appt("after-week", day(2026, time.August, 30), "09:00"),
	}

	got := Apply(raw, p, NameIndex{})
	if len(got) != 2 {
		t.Fatalf("expected 2 appointments in week, got %v", ids(got))
	}
	if got[0].ID != "week-start" || got[1].ID != "week-end" {
		t.Fatalf("unexpected week members: %v", ids(got))
	}
}

func TestApply_MonthWindow(t *testing.T) {
	anchor := day(2026, time.August, 15)
	p := baseParams(anchor)
	p.Mode = ModeMonth

	raw := []model.Appointment{
		appt("first", day(2026, time.August, 1), "09:00"),
		appt("last", day(2026, time.August, 31), "09:00"),
		appt("july", day(2026, time.July, 31), "09:00"),
		appt("prev-year", day(2025, time.August, 15), "09:00"),
	}

	got := Apply(raw, p, NameIndex{})
	if len(got) != 2 {
		t.Fatalf("expected 2 appointments in month, got %v", ids(got))
	}
}

func TestApply_AllSentinelsAreNoOps(t *testing.T) {
	anchor := day(2026, time.August, 26)
	raw := []model.Appointment{
		appt("a", anchor, "09:00"),
		appt("b", anchor, "14:00"),
	}
	raw[1].Status = model.StatusConfirmed
	raw[1].ProfessionalID = "p2"

	unfiltered := Apply(raw, baseParams(anchor), NameIndex{})

	p := baseParams(anchor)
	p.Status = All
	p.Professional = All
	p.Bucket = BucketAll
	got := Apply(raw, p, NameIndex{})

	if len(got) != len(unfiltered) {
		t.Fatalf("all sentinels changed the result: %v vs %v", ids(got), ids(unfiltered))
	}
}

func TestApply_StatusAndProfessional(t *testing.T) {
	anchor := day(2026, time.August, 26)
	a := appt("a", anchor, "09:00")
	b := appt("b", anchor, "10:00")
	b.Status = model.StatusConfirmed
	b.ProfessionalID = "p2"
	raw := []model.Appointment{a, b}

	p := baseParams(anchor)
	p.Status = "confirmed"
	got := Apply(raw, p, NameIndex{})
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("status filter: expected [b], got %v", ids(got))
	}

	p = baseParams(anchor)
	p.Professional = "p1"
	got = Apply(raw, p, NameIndex{})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("professional filter: expected [a], got %v", ids(got))
	}
}

func TestApply_QueryMatchesAnyRosterName(t *testing.T) {
	anchor := day(2026, time.August, 26)
	raw := []model.Appointment{appt("a", anchor, "09:00")}
	names := NameIndex{
		Clients:       map[string]string{"c1": "Maria Souza"},
		Professionals: map[string]string{"p1": "Joana Lima"},
		Services:      map[string]string{"s1": "Hair Coloring"},
	}

	for _, query := range []string{"maria", "JOANA", "color", ""} {
		p := baseParams(anchor)
		p.Query = query
		if got := Apply(raw, p, names); len(got) != 1 {
			t.Fatalf("query %q should match, got %v", query, ids(got))
		}
	}

	p := baseParams(anchor)
	p.Query = "barber"
	if got := Apply(raw, p, names); len(got) != 0 {
		t.Fatalf("query %q should not match, got %v", p.Query, ids(got))
	}
}

func TestBucketFor(t *testing.T) {
	cases := []struct {
		start  string
		want   Bucket
		wantOK bool
	}{
		{"06:00", BucketMorning, true},
		{"09:00", BucketMorning, true},
		{"11:59", BucketMorning, true},
		{"12:00", BucketAfternoon, true},
		{"17:30", BucketAfternoon, true},
		{"18:00", BucketEvening, true},
		{"23:30", BucketEvening, true},
		{"00:15", BucketEvening, true},
		{"05:59", BucketEvening, true},
		{"", "", false},
		{"nope", "", false},
	}
	for _, tc := range cases {
		got, ok := BucketFor(tc.start)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("BucketFor(%q) = %q,%v; want %q,%v", tc.start, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestApply_BucketFilter(t *testing.T) {
	anchor := day(2026, time.August, 26)
	morning := appt("morning", anchor, "09:00")
	late := appt("late", anchor, "23:30")
	blank := appt("blank", anchor, "")
	raw := []model.Appointment{morning, late, blank}

	p := baseParams(anchor)
	p.Bucket = BucketMorning
	got := Apply(raw, p, NameIndex{})
	if len(got) != 1 || got[0].ID != "morning" {
		t.Fatalf("morning bucket: expected [morning], got %v", ids(got))
	}

	p.Bucket = BucketEvening
	got = Apply(raw, p, NameIndex{})
	if len(got) != 1 || got[0].ID != "late" {
		t.Fatalf("evening bucket: expected [late], got %v", ids(got))
	}

	// No start time matches only the "all" bucket.
	p.Bucket = BucketAll
	got = Apply(raw, p, NameIndex{})
	if len(got) != 3 {
		t.Fatalf("all bucket: expected 3, got %v", ids(got))
	}
}

func TestApply_Idempotent(t *testing.T) {
	anchor := day(2026, time.August, 26)
	raw := []model.Appointment{
		appt("a", anchor, "09:00"),
		appt("b", day(2026, time.August, 27), "10:00"),
	}
	p := baseParams(anchor)
	p.Query = ""

	first := Apply(raw, p, NameIndex{})
	second := Apply(raw, p, NameIndex{})
	if len(first) != len(second) {
		t.Fatalf("filtering is not idempotent: %v vs %v", ids(first), ids(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("filtering is not idempotent at index %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestShift(t *testing.T) {
	anchor := day(2026, time.August, 26)

	if got := Shift(anchor, ModeDay, 1); !got.Equal(day(2026, time.August, 27)) {
		t.Fatalf("day shift: got %s", got.Format("2006-01-02"))
	}
	if got := Shift(anchor, ModeWeek, -1); !got.Equal(day(2026, time.August, 19)) {
		t.Fatalf("week shift: got %s", got.Format("2006-01-02"))
	}
	if got := Shift(anchor, ModeMonth, 1); !got.Equal(day(2026, time.September, 26)) {
		t.Fatalf("month shift: got %s", got.Format("2006-01-02"))
	}
}

func TestWeekStart(t *testing.T) {
	// Wednesday anchors to the previous Sunday; Sunday anchors to itself.
	if got := WeekStart(day(2026, time.August, 26)); !got.Equal(day(2026, time.August, 23)) {
		t.Fatalf("expected 2026-08-23, got %s", got.Format("2006-01-02"))
	}
	if got := WeekStart(day(2026, time.August, 23)); !got.Equal(day(2026, time.August, 23)) {
		t.Fatalf("expected 2026-08-23, got %s", got.Format("2006-01-02"))
	}
}
