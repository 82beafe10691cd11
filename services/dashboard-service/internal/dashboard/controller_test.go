package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/salonworks/salonboard/services/dashboard-service/internal/dataservice"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/model"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/notify"
)

var testDay = time.Date(2026, time.August, 26, 0, 0, 0, 0, time.UTC)

// fakeStore is an in-memory stand-in for the remote store.
type fakeStore struct {
	mu            sync.Mutex
	appointments  []model.Appointment
	clients       []model.Client
	services      []model.Service
	professionals []model.Professional

	listCalls   int
	updateCalls int

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	// onList, when set, overrides ListAppointments per call number (1-based).
	onList func(call int) ([]model.Appointment, error)
}

func (f *fakeStore) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	hook := f.onList
	err := f.listErr
	appts := append([]model.Appointment(nil), f.appointments...)
	f.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (f *fakeStore) CreateAppointment(ctx context.Context, draft model.AppointmentDraft) (model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return model.Appointment{}, f.createErr
	}
	appt := model.Appointment{
		ID:             "new-id",
		ClientID:       draft.ClientID,
		ProfessionalID: draft.ProfessionalID,
		ServiceID:      draft.ServiceID,
		Date:           draft.Date,
		StartTime:      draft.StartTime,
		EndTime:        draft.EndTime,
		Status:         model.StatusPending,
		Price:          draft.Price,
		Notes:          draft.Notes,
	}
	f.appointments = append(f.appointments, appt)
	return appt, nil
}

func (f *fakeStore) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return model.Appointment{}, f.updateErr
	}
	for i := range f.appointments {
		if f.appointments[i].ID != id {
			continue
		}
		if patch.Status != nil {
			f.appointments[i].Status = *patch.Status
		}
		if patch.Price != nil {
			f.appointments[i].Price = *patch.Price
		}
		if patch.StartTime != nil {
			f.appointments[i].StartTime = *patch.StartTime
		}
		return f.appointments[i], nil
	}
	return model.Appointment{}, &dataservice.RemoteError{Op: "update", Message: "appointment not found"}
}

func (f *fakeStore) DeleteAppointment(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.appointments[:0]
	for _, appt := range f.appointments {
		if appt.ID != id {
			kept = append(kept, appt)
		}
	}
	f.appointments = kept
	return nil
}

func (f *fakeStore) ListClients(ctx context.Context) ([]model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Client(nil), f.clients...), nil
}

func (f *fakeStore) ListServices(ctx context.Context) ([]model.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Service(nil), f.services...), nil
}

func (f *fakeStore) ListProfessionals(ctx context.Context) ([]model.Professional, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Professional(nil), f.professionals...), nil
}

func newTestController(store *fakeStore) (*Controller, *notify.Recorder) {
	events := &notify.Recorder{}
	logger := slog.New(slog.DiscardHandler)
	ctrl := New(store, events, logger, Config{
		AverageServiceMinutes: 45,
		Now:                   func() time.Time { return testDay },
	})
	return ctrl, events
}

func seedAppointment(id string, status model.Status, price float64) model.Appointment {
	return model.Appointment{
		ID:             id,
		ClientID:       "c1",
		ProfessionalID: "p1",
		ServiceID:      "s1",
		Date:           testDay,
		StartTime:      "09:00",
		Status:         status,
		Price:          price,
	}
}

func TestRefreshPopulatesAllKinds(t *testing.T) {
	store := &fakeStore{
		appointments:  []model.Appointment{seedAppointment("a1", model.StatusPending, 80)},
		clients:       []model.Client{{ID: "c1", Name: "Maria"}},
		services:      []model.Service{{ID: "s1", Name: "Cut"}},
		professionals: []model.Professional{{ID: "p1", Name: "Ana"}},
	}
	ctrl, _ := newTestController(store)

	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if got := len(ctrl.RawAppointments()); got != 1 {
		t.Fatalf("expected 1 appointment, got %d", got)
	}
	if got := len(ctrl.Clients()); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}
	if got := len(ctrl.Services()); got != 1 {
		t.Fatalf("expected 1 service, got %d", got)
	}
	if got := len(ctrl.Professionals()); got != 1 {
		t.Fatalf("expected 1 professional, got %d", got)
	}
	if ctrl.Loading() {
		t.Fatal("loading should be false after refresh")
	}
	if err := ctrl.LastError(); err != nil {
		t.Fatalf("unexpected last error: %v", err)
	}
}

func TestRefresh_FailingKindDoesNotDisturbOthers(t *testing.T) {
	store := &fakeStore{
		listErr: errors.New("store down"),
		clients: []model.Client{{ID: "c1", Name: "Maria"}},
	}
	ctrl, _ := newTestController(store)

	if err := ctrl.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if got := len(ctrl.Clients()); got != 1 {
		t.Fatalf("client fetch should have succeeded, got %d", got)
	}
	if err := ctrl.LastError(); err == nil || !strings.Contains(err.Error(), "store down") {
		t.Fatalf("expected recorded fetch error, got %v", err)
	}

	// Retry after the store recovers clears the error.
	store.mu.Lock()
	store.listErr = nil
	store.appointments = []model.Appointment{seedAppointment("a1", model.StatusPending, 80)}
	store.mu.Unlock()

	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if err := ctrl.LastError(); err != nil {
		t.Fatalf("error should clear after successful retry: %v", err)
	}
}

func TestUpdateFailureLeavesRawSetUnchanged(t *testing.T) {
	store := &fakeStore{
		appointments: []model.Appointment{seedAppointment("a1", model.StatusPending, 80)},
	}
	ctrl, events := newTestController(store)
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	store.mu.Lock()
	store.updateErr = &dataservice.RemoteError{Op: "update", Message: "write conflict"}
	store.mu.Unlock()

	price := 120.0
	if err := ctrl.UpdateAppointment(context.Background(), "a1", model.AppointmentPatch{Price: &price}); err == nil {
		t.Fatal("expected update to fail")
	}

	raw := ctrl.RawAppointments()
	if len(raw) != 1 || raw[0].Price != 80 || raw[0].Status != model.StatusPending {
		t.Fatalf("raw set changed after failed update: %+v", raw)
	}
	errMsgs := events.Errors()
	if len(errMsgs) != 1 || !strings.Contains(errMsgs[0], "write conflict") {
		t.Fatalf("expected error notification with remote message, got %v", errMsgs)
	}
}

func TestCreateSuccessRefetchesAndNotifies(t *testing.T) {
	store := &fakeStore{}
	ctrl, events := newTestController(store)

	err := ctrl.CreateAppointment(context.Background(), model.AppointmentDraft{
		ClientID:       "c1",
		ProfessionalID: "p1",
		ServiceID:      "s1",
		Date:           testDay,
		StartTime:      "10:00",
		Price:          50,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	raw := ctrl.RawAppointments()
	if len(raw) != 1 || raw[0].ID != "new-id" || raw[0].Status != model.StatusPending {
		t.Fatalf("expected refetched set with new pending appointment, got %+v", raw)
	}
	if got := events.Successes(); len(got) != 1 {
		t.Fatalf("expected one success notification, got %v", got)
	}
}

func TestDelete_RemovesFromRawSet(t *testing.T) {
	store := &fakeStore{
		appointments: []model.Appointment{
			seedAppointment("a1", model.StatusPending, 80),
			seedAppointment("a2", model.StatusConfirmed, 90),
		},
	}
	ctrl, _ := newTestController(store)
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if err := ctrl.DeleteAppointment(context.Background(), "a1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	raw := ctrl.RawAppointments()
	if len(raw) != 1 || raw[0].ID != "a2" {
		t.Fatalf("expected only a2 to remain, got %+v", raw)
	}
}

func TestInvalidTransitionRejectedBeforeRemoteCall(t *testing.T) {
	store := &fakeStore{
		appointments: []model.Appointment{seedAppointment("a1", model.StatusFinished, 80)},
	}
	ctrl, _ := newTestController(store)
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	status := model.StatusPending
	err := ctrl.UpdateAppointment(context.Background(), "a1", model.AppointmentPatch{Status: &status})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.updateCalls != 0 {
		t.Fatalf("remote update should not have been attempted, got %d calls", store.updateCalls)
	}
}

func TestConfirmAndCancelActions(t *testing.T) {
	store := &fakeStore{
		appointments: []model.Appointment{seedAppointment("a1", model.StatusPending, 80)},
	}
	ctrl, _ := newTestController(store)
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if err := ctrl.ConfirmAppointment(context.Background(), "a1"); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if raw := ctrl.RawAppointments(); raw[0].Status != model.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", raw[0].Status)
	}

	if err := ctrl.CancelAppointment(context.Background(), "a1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if raw := ctrl.RawAppointments(); raw[0].Status != model.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", raw[0].Status)
	}

	// Cancelled is terminal: confirming again must fail locally.
	if err := ctrl.ConfirmAppointment(context.Background(), "a1"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	release := make(chan struct{})

	stale := []model.Appointment{seedAppointment("stale", model.StatusPending, 1)}
	fresh := []model.Appointment{seedAppointment("fresh", model.StatusPending, 2)}

	store := &fakeStore{}
	store.onList = func(call int) ([]model.Appointment, error) {
		if call == 1 {
			close(slowStarted)
			<-release
			return stale, nil
		}
		return fresh, nil
	}
	ctrl, _ := newTestController(store)

	done := make(chan error, 1)
	go func() { done <- ctrl.RefreshAppointments(context.Background()) }()
	<-slowStarted

	// A second fetch starts (and finishes) while the first is still in flight.
	if err := ctrl.RefreshAppointments(context.Background()); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first refresh errored: %v", err)
	}

	raw := ctrl.RawAppointments()
	if len(raw) != 1 || raw[0].ID != "fresh" {
		t.Fatalf("stale response overwrote newer state: %+v", raw)
	}
}

func TestFilteredAppointmentsFollowParams(t *testing.T) {
	other := seedAppointment("a2", model.StatusConfirmed, 90)
	other.Date = testDay.AddDate(0, 0, 1)
	store := &fakeStore{
		appointments:  []model.Appointment{seedAppointment("a1", model.StatusPending, 80), other},
		professionals: []model.Professional{{ID: "p1", Name: "Ana"}},
	}
	ctrl, _ := newTestController(store)
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if got := ctrl.Appointments(); len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("default day view should show only today, got %+v", got)
	}

	ctrl.ShiftAnchor(1)
	if got := ctrl.Appointments(); len(got) != 1 || got[0].ID != "a2" {
		t.Fatalf("shifted day view should show tomorrow, got %+v", got)
	}

	ctrl.SetStatusFilter("pending")
	if got := ctrl.Appointments(); len(got) != 0 {
		t.Fatalf("status filter should exclude a2, got %+v", got)
	}
}

func TestStatsUseTodayRegardlessOfAnchor(t *testing.T) {
	other := seedAppointment("a2", model.StatusConfirmed, 90)
	other.Date = testDay.AddDate(0, 0, 1)
	store := &fakeStore{
		appointments:  []model.Appointment{seedAppointment("a1", model.StatusConfirmed, 80), other},
		professionals: []model.Professional{{ID: "p1", Name: "Ana"}},
	}
	ctrl, _ := newTestController(store)
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	// Move the list a week ahead; the KPI cards must still describe today.
	ctrl.SetMode("week")
	ctrl.ShiftAnchor(1)

	s := ctrl.Stats()
	if s.TotalToday != 1 || s.ConfirmedToday != 1 {
		t.Fatalf("stats should cover today only: %+v", s)
	}
	if s.TopProfessionalID != "p1" || s.TopProfessionalCount != 2 {
		t.Fatalf("leaderboard should rank whole set: %+v", s)
	}
}
