// Package handlers exposes the engine to the presentation layer: the
// filtered list, derived stats, filter setters, and mutation triggers.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/salonworks/salonboard/services/dashboard-service/internal/dashboard"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/dataservice"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/filter"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/model"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/notify"
)

const dateFormat = "2006-01-02"

type DashboardHandler struct {
	ctrl     *dashboard.Controller
	events   *notify.Recorder
	logger   *slog.Logger
	validate *validator.Validate
}

func NewDashboardHandler(ctrl *dashboard.Controller, events *notify.Recorder, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		ctrl:     ctrl,
		events:   events,
		logger:   logger,
		validate: validator.New(),
	}
}

func (h *DashboardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/dashboard/appointments", h.ListAppointments)
	mux.HandleFunc("GET /v1/dashboard/stats", h.Stats)
	mux.HandleFunc("PUT /v1/dashboard/filters", h.SetFilters)
	mux.HandleFunc("POST /v1/dashboard/filters/shift", h.ShiftAnchor)
	mux.HandleFunc("POST /v1/dashboard/refresh", h.Refresh)
	mux.HandleFunc("GET /v1/dashboard/notifications", h.Notifications)
	mux.HandleFunc("POST /v1/dashboard/appointments", h.CreateAppointment)
	mux.HandleFunc("PATCH /v1/dashboard/appointments/{id}", h.UpdateAppointment)
	mux.HandleFunc("DELETE /v1/dashboard/appointments/{id}", h.DeleteAppointment)
	mux.HandleFunc("POST /v1/dashboard/appointments/{id}/confirm", h.ConfirmAppointment)
	mux.HandleFunc("POST /v1/dashboard/appointments/{id}/cancel", h.CancelAppointment)
}

type appointmentItem struct {
	ID               string  `json:"id"`
	ClientID         string  `json:"client_id"`
	ClientName       string  `json:"client_name,omitempty"`
	ProfessionalID   string  `json:"professional_id"`
	ProfessionalName string  `json:"professional_name,omitempty"`
	ServiceID        string  `json:"service_id"`
	ServiceName      string  `json:"service_name,omitempty"`
	Date             string  `json:"date"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time,omitempty"`
	Status           string  `json:"status"`
	Price            float64 `json:"price"`
	Notes            string  `json:"notes,omitempty"`
}

type listResponse struct {
	Items   []appointmentItem `json:"items"`
	Loading bool              `json:"loading"`
}

func (h *DashboardHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appts := h.ctrl.Appointments()

	clientNames := map[string]string{}
	for _, c := range h.ctrl.Clients() {
		clientNames[c.ID] = c.Name
	}
	proNames := map[string]string{}
	for _, p := range h.ctrl.Professionals() {
		proNames[p.ID] = p.Name
	}
	serviceNames := map[string]string{}
	for _, s := range h.ctrl.Services() {
		serviceNames[s.ID] = s.Name
	}

	items := make([]appointmentItem, 0, len(appts))
	for _, appt := range appts {
		items = append(items, appointmentItem{
			ID:               appt.ID,
			ClientID:         appt.ClientID,
			ClientName:       clientNames[appt.ClientID],
			ProfessionalID:   appt.ProfessionalID,
			ProfessionalName: proNames[appt.ProfessionalID],
			ServiceID:        appt.ServiceID,
			ServiceName:      serviceNames[appt.ServiceID],
			Date:             appt.Date.UTC().Format(dateFormat),
			StartTime:        appt.StartTime,
			EndTime:          appt.EndTime,
			Status:           string(appt.Status),
			Price:            appt.Price,
			Notes:            appt.Notes,
		})
	}
	writeData(w, http.StatusOK, listResponse{Items: items, Loading: h.ctrl.Loading()})
}

type statsResponse struct {
	TotalToday            int     `json:"total_today"`
	ConfirmedToday        int     `json:"confirmed_today"`
	CancelledToday        int     `json:"cancelled_today"`
	NoShowToday           int     `json:"no_show_today"`
	FinishedToday         int     `json:"finished_today"`
	OccupationRate        float64 `json:"occupation_rate"`
	TopProfessionalID     string  `json:"top_professional_id,omitempty"`
	TopProfessionalName   string  `json:"top_professional_name,omitempty"`
	TopProfessionalCount  int     `json:"top_professional_count"`
	AverageServiceMinutes int     `json:"average_service_minutes"`
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s := h.ctrl.Stats()
	writeData(w, http.StatusOK, statsResponse{
		TotalToday:            s.TotalToday,
		ConfirmedToday:        s.ConfirmedToday,
		CancelledToday:        s.CancelledToday,
		NoShowToday:           s.NoShowToday,
		FinishedToday:         s.FinishedToday,
		OccupationRate:        s.OccupationRate,
		TopProfessionalID:     s.TopProfessionalID,
		TopProfessionalName:   s.TopProfessionalName,
		TopProfessionalCount:  s.TopProfessionalCount,
		AverageServiceMinutes: s.AverageServiceMinutes,
	})
}

type setFiltersRequest struct {
	Mode         *string `json:"mode" validate:"omitempty,oneof=day week month"`
	Anchor       *string `json:"anchor"`
	Query        *string `json:"query"`
	Status       *string `json:"status" validate:"omitempty,oneof=all pending confirmed in_progress finished cancelled no_show"`
	Professional *string `json:"professional"`
	Bucket       *string `json:"bucket" validate:"omitempty,oneof=all morning afternoon evening"`
}

func (h *DashboardHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var req setFiltersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Mode != nil {
		h.ctrl.SetMode(filter.Mode(*req.Mode))
	}
	if req.Anchor != nil {
		anchor, err := time.ParseInLocation(dateFormat, *req.Anchor, time.UTC)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "anchor must be YYYY-MM-DD")
			return
		}
		h.ctrl.SetAnchor(anchor)
	}
	if req.Query != nil {
		h.ctrl.SetQuery(*req.Query)
	}
	if req.Status != nil {
		h.ctrl.SetStatusFilter(*req.Status)
	}
	if req.Professional != nil {
		h.ctrl.SetProfessionalFilter(*req.Professional)
	}
	if req.Bucket != nil {
		h.ctrl.SetBucket(filter.Bucket(*req.Bucket))
	}
	h.writeParams(w)
}

type shiftRequest struct {
	Delta int `json:"delta" validate:"required,oneof=-1 1"`
}

func (h *DashboardHandler) ShiftAnchor(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, "delta must be -1 or 1")
		return
	}
	h.ctrl.ShiftAnchor(req.Delta)
	h.writeParams(w)
}

type paramsResponse struct {
	Mode         string `json:"mode"`
	Anchor       string `json:"anchor"`
	Query        string `json:"query,omitempty"`
	Status       string `json:"status"`
	Professional string `json:"professional"`
	Bucket       string `json:"bucket"`
}

func (h *DashboardHandler) writeParams(w http.ResponseWriter) {
	p := h.ctrl.Params()
	writeData(w, http.StatusOK, paramsResponse{
		Mode:         string(p.Mode),
		Anchor:       p.Anchor.UTC().Format(dateFormat),
		Query:        p.Query,
		Status:       p.Status,
		Professional: p.Professional,
		Bucket:       string(p.Bucket),
	})
}

func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Refresh(r.Context()); err != nil {
		h.logger.Error("dashboard refresh failed", "err", err)
		writeErr(w, http.StatusBadGateway, err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]int{"appointments": len(h.ctrl.RawAppointments())})
}

type notificationsResponse struct {
	Successes []string `json:"successes"`
	Errors    []string `json:"errors"`
}

func (h *DashboardHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	successes, errs := h.events.Drain()
	if successes == nil {
		successes = []string{}
	}
	if errs == nil {
		errs = []string{}
	}
	writeData(w, http.StatusOK, notificationsResponse{Successes: successes, Errors: errs})
}

type createAppointmentRequest struct {
	ClientID       string  `json:"client_id" validate:"required"`
	ProfessionalID string  `json:"professional_id" validate:"required"`
	ServiceID      string  `json:"service_id" validate:"required"`
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime        string  `json:"end_time" validate:"omitempty,datetime=15:04"`
	Price          float64 `json:"price" validate:"gte=0"`
	Notes          string  `json:"notes"`
}

func (h *DashboardHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	date, _ := time.ParseInLocation(dateFormat, req.Date, time.UTC)

	err := h.ctrl.CreateAppointment(r.Context(), model.AppointmentDraft{
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Price:          req.Price,
		Notes:          req.Notes,
	})
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]string{"result": "created"})
}

type updateAppointmentRequest struct {
	ClientID       *string  `json:"client_id"`
	ProfessionalID *string  `json:"professional_id"`
	ServiceID      *string  `json:"service_id"`
	Date           *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime      *string  `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime        *string  `json:"end_time" validate:"omitempty,datetime=15:04"`
	Status         *string  `json:"status" validate:"omitempty,oneof=pending confirmed in_progress finished cancelled no_show"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	Notes          *string  `json:"notes"`
}

func (h *DashboardHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req updateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := model.AppointmentPatch{
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Price:          req.Price,
		Notes:          req.Notes,
	}
	if req.Date != nil {
		date, _ := time.ParseInLocation(dateFormat, *req.Date, time.UTC)
		patch.Date = &date
	}
	if req.Status != nil {
		status := model.Status(*req.Status)
		patch.Status = &status
	}

	if err := h.ctrl.UpdateAppointment(r.Context(), id, patch); err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"result": "updated"})
}

func (h *DashboardHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.DeleteAppointment(r.Context(), r.PathValue("id")); err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"result": "deleted"})
}

func (h *DashboardHandler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.ConfirmAppointment(r.Context(), r.PathValue("id")); err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"result": "confirmed"})
}

func (h *DashboardHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.CancelAppointment(r.Context(), r.PathValue("id")); err != nil {
		h.writeMutationError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"result": "cancelled"})
}

func (h *DashboardHandler) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, dashboard.ErrInvalidTransition):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		var remote *dataservice.RemoteError
		if errors.As(err, &remote) {
			writeErr(w, http.StatusBadGateway, remote.Message)
			return
		}
		writeErr(w, http.StatusBadGateway, err.Error())
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}
