package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/salonworks/salonboard/services/store-service/internal/model"
	"github.com/salonworks/salonboard/services/store-service/internal/outbox"
	"github.com/salonworks/salonboard/services/store-service/internal/storage"
)

const dateFormat = "2006-01-02"

type AppointmentHandler struct {
	repo       *storage.AppointmentRepository
	outboxRepo *outbox.Repository
	logger     *slog.Logger
	validate   *validator.Validate
}

func NewAppointmentHandler(repo *storage.AppointmentRepository, outboxRepo *outbox.Repository, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		logger:     logger,
		validate:   validator.New(),
	}
}

func (h *AppointmentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/appointments", h.List)
	mux.HandleFunc("GET /v1/appointments/{id}", h.Get)
	mux.HandleFunc("POST /v1/appointments", h.Create)
	mux.HandleFunc("PATCH /v1/appointments/{id}", h.Patch)
	mux.HandleFunc("DELETE /v1/appointments/{id}", h.Delete)
}

type appointmentItem struct {
	ID             string  `json:"id"`
	ClientID       string  `json:"client_id"`
	ProfessionalID string  `json:"professional_id"`
	ServiceID      string  `json:"service_id"`
	Date           string  `json:"date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time,omitempty"`
	Status         string  `json:"status"`
	Price          float64 `json:"price"`
	Notes          string  `json:"notes,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func toItem(appt model.Appointment) appointmentItem {
	return appointmentItem{
		ID:             appt.ID,
		ClientID:       appt.ClientID,
		ProfessionalID: appt.ProfessionalID,
		ServiceID:      appt.ServiceID,
		Date:           appt.Date.UTC().Format(dateFormat),
		StartTime:      appt.StartTime,
		EndTime:        appt.EndTime,
		Status:         appt.Status,
		Price:          appt.Price,
		Notes:          appt.Notes,
		CreatedAt:      appt.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	appts, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list appointments failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	items := make([]appointmentItem, 0, len(appts))
	for _, appt := range appts {
		items = append(items, toItem(appt))
	}
	writeData(w, http.StatusOK, items)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	appt, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if storage.IsNotFound(err) {
			writeErr(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("get appointment failed", "err", err, "id", id)
		writeErr(w, http.StatusInternalServerError, "failed to get appointment")
		return
	}
	writeData(w, http.StatusOK, toItem(appt))
}

type createAppointmentRequest struct {
	ClientID       string  `json:"client_id" validate:"required"`
	ProfessionalID string  `json:"professional_id" validate:"required"`
	ServiceID      string  `json:"service_id" validate:"required"`
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime        string  `json:"end_time" validate:"omitempty,datetime=15:04"`
	Status         string  `json:"status" validate:"omitempty,oneof=pending confirmed in_progress finished cancelled no_show"`
	Price          float64 `json:"price" validate:"gte=0"`
	Notes          string  `json:"notes"`
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		req.Status = model.StatusDefault
	}
	date, _ := time.ParseInLocation(dateFormat, req.Date, time.UTC)

	appt := model.Appointment{
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         req.Status,
		Price:          req.Price,
		Notes:          req.Notes,
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := h.repo.Create(ctx, tx, &appt); err != nil {
		h.logger.Error("create appointment failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}
	if err := h.insertEvent(ctx, tx, outbox.EventAppointmentCreated, appt); err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to write outbox event")
		return
	}
	if err := tx.Commit(ctx); err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to commit")
		return
	}
	writeData(w, http.StatusCreated, toItem(appt))
}

type patchAppointmentRequest struct {
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

func (h *AppointmentHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req patchAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := storage.AppointmentPatch{
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         req.Status,
		Price:          req.Price,
		Notes:          req.Notes,
	}
	if req.Date != nil {
		date, _ := time.ParseInLocation(dateFormat, *req.Date, time.UTC)
		patch.Date = &date
	}
	if patch.Empty() {
		writeErr(w, http.StatusBadRequest, "empty patch")
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.repo.Update(ctx, tx, id, patch)
	if err != nil {
		if storage.IsNotFound(err) {
			writeErr(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("update appointment failed", "err", err, "id", id)
		writeErr(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}
	if err := h.insertEvent(ctx, tx, outbox.EventAppointmentUpdated, appt); err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to write outbox event")
		return
	}
	if err := tx.Commit(ctx); err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to commit")
		return
	}
	writeData(w, http.StatusOK, toItem(appt))
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db error")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := h.repo.Delete(ctx, tx, id); err != nil {
		if storage.IsNotFound(err) {
			writeErr(w, http.StatusNotFound, "appointment not found")
			return
		}
		h.logger.Error("delete appointment failed", "err", err, "id", id)
		writeErr(w, http.StatusInternalServerError, "failed to delete appointment")
		return
	}

	payload, err := json.Marshal(map[string]string{"appointment_id": id})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to build event payload")
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   id,
		EventType:     outbox.EventAppointmentDeleted,
		Payload:       payload,
	}); err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to write outbox event")
		return
	}
	if err := tx.Commit(ctx); err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to commit")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"id": id})
}

func (h *AppointmentHandler) insertEvent(ctx context.Context, tx pgx.Tx, eventType string, appt model.Appointment) error {
	payload, err := json.Marshal(map[string]any{
		"appointment_id":  appt.ID,
		"client_id":       appt.ClientID,
		"professional_id": appt.ProfessionalID,
		"service_id":      appt.ServiceID,
		"date":            appt.Date.UTC().Format(dateFormat),
		"start_time":      appt.StartTime,
		"status":          appt.Status,
	})
	if err != nil {
		return err
	}
	return h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     eventType,
		Payload:       payload,
	})
}
