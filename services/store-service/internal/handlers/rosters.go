package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/salonworks/salonboard/services/store-service/internal/model"
	"github.com/salonworks/salonboard/services/store-service/internal/storage"
)

type RosterHandler struct {
	clients       *storage.ClientRepository
	services      *storage.ServiceRepository
	professionals *storage.ProfessionalRepository
	logger        *slog.Logger
	validate      *validator.Validate
}

func NewRosterHandler(clients *storage.ClientRepository, services *storage.ServiceRepository, professionals *storage.ProfessionalRepository, logger *slog.Logger) *RosterHandler {
	return &RosterHandler{
		clients:       clients,
		services:      services,
		professionals: professionals,
		logger:        logger,
		validate:      validator.New(),
	}
}

func (h *RosterHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/clients", h.ListClients)
	mux.HandleFunc("POST /v1/clients", h.CreateClient)
	mux.HandleFunc("PUT /v1/clients/{id}", h.UpdateClient)
	mux.HandleFunc("DELETE /v1/clients/{id}", h.DeleteClient)
	mux.HandleFunc("GET /v1/services", h.ListServices)
	mux.HandleFunc("POST /v1/services", h.CreateService)
	mux.HandleFunc("GET /v1/professionals", h.ListProfessionals)
	mux.HandleFunc("POST /v1/professionals", h.CreateProfessional)
}

type clientItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type clientRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

func (h *RosterHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context())
	if err != nil {
		h.logger.Error("list clients failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to list clients")
		return
	}
	items := make([]clientItem, 0, len(clients))
	for _, c := range clients {
		items = append(items, clientItem{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone})
	}
	writeData(w, http.StatusOK, items)
}

func (h *RosterHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	c := model.Client{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := h.clients.Create(r.Context(), &c); err != nil {
		h.logger.Error("create client failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to create client")
		return
	}
	writeData(w, http.StatusCreated, clientItem{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone})
}

func (h *RosterHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.clients.Update(r.Context(), r.PathValue("id"), req.Name, req.Email, req.Phone)
	if err != nil {
		if storage.IsNotFound(err) {
			writeErr(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Error("update client failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to update client")
		return
	}
	writeData(w, http.StatusOK, clientItem{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone})
}

func (h *RosterHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.clients.Delete(r.Context(), id); err != nil {
		if storage.IsNotFound(err) {
			writeErr(w, http.StatusNotFound, "client not found")
			return
		}
		h.logger.Error("delete client failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to delete client")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"id": id})
}

type serviceItem struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

type serviceRequest struct {
	Name            string  `json:"name" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0"`
	Price           float64 `json:"price" validate:"gte=0"`
}

func (h *RosterHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context())
	if err != nil {
		h.logger.Error("list services failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to list services")
		return
	}
	items := make([]serviceItem, 0, len(services))
	for _, s := range services {
		items = append(items, serviceItem{ID: s.ID, Name: s.Name, DurationMinutes: s.DurationMinutes, Price: s.Price})
	}
	writeData(w, http.StatusOK, items)
}

func (h *RosterHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	s := model.Service{Name: req.Name, DurationMinutes: req.DurationMinutes, Price: req.Price}
	if err := h.services.Create(r.Context(), &s); err != nil {
		h.logger.Error("create service failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to create service")
		return
	}
	writeData(w, http.StatusCreated, serviceItem{ID: s.ID, Name: s.Name, DurationMinutes: s.DurationMinutes, Price: s.Price})
}

type professionalItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
}

type professionalRequest struct {
	Name      string `json:"name" validate:"required"`
	Specialty string `json:"specialty"`
}

func (h *RosterHandler) ListProfessionals(w http.ResponseWriter, r *http.Request) {
	pros, err := h.professionals.List(r.Context())
	if err != nil {
		h.logger.Error("list professionals failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to list professionals")
		return
	}
	items := make([]professionalItem, 0, len(pros))
	for _, p := range pros {
		items = append(items, professionalItem{ID: p.ID, Name: p.Name, Specialty: p.Specialty})
	}
	writeData(w, http.StatusOK, items)
}

func (h *RosterHandler) CreateProfessional(w http.ResponseWriter, r *http.Request) {
	var req professionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	p := model.Professional{Name: req.Name, Specialty: req.Specialty}
	if err := h.professionals.Create(r.Context(), &p); err != nil {
		h.logger.Error("create professional failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "failed to create professional")
		return
	}
	writeData(w, http.StatusCreated, professionalItem{ID: p.ID, Name: p.Name, Specialty: p.Specialty})
}
