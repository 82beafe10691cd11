package dataservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/salonworks/salonboard/services/dashboard-service/internal/model"
)

const wireDateFormat = "2006-01-02"

// HTTPClient talks to the store service over its JSON API.
type HTTPClient struct {
	base string
	http *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type appointmentWire struct {
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
	CreatedAt      string  `json:"created_at,omitempty"`
}

type appointmentDraftWire struct {
	ClientID       string  `json:"client_id"`
	ProfessionalID string  `json:"professional_id"`
	ServiceID      string  `json:"service_id"`
	Date           string  `json:"date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time,omitempty"`
	Price          float64 `json:"price"`
	Notes          string  `json:"notes,omitempty"`
}

type appointmentPatchWire struct {
	ClientID       *string  `json:"client_id,omitempty"`
	ProfessionalID *string  `json:"professional_id,omitempty"`
	ServiceID      *string  `json:"service_id,omitempty"`
	Date           *string  `json:"date,omitempty"`
	StartTime      *string  `json:"start_time,omitempty"`
	EndTime        *string  `json:"end_time,omitempty"`
	Status         *string  `json:"status,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

type clientWire struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type professionalWire struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
}

type serviceWire struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

func (c *HTTPClient) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	var wires []appointmentWire
	if err := c.do(ctx, http.MethodGet, "/v1/appointments", nil, &wires); err != nil {
		return nil, err
	}
	out := make([]model.Appointment, 0, len(wires))
	for _, w := range wires {
		appt, err := w.toModel()
		if err != nil {
			return nil, fmt.Errorf("list appointments: %w", err)
		}
		out = append(out, appt)
	}
	return out, nil
}

func (c *HTTPClient) CreateAppointment(ctx context.Context, draft model.AppointmentDraft) (model.Appointment, error) {
	body := appointmentDraftWire{
		ClientID:       draft.ClientID,
		ProfessionalID: draft.ProfessionalID,
		ServiceID:      draft.ServiceID,
		Date:           draft.Date.UTC().Format(wireDateFormat),
		StartTime:      draft.StartTime,
		EndTime:        draft.EndTime,
		Price:          draft.Price,
		Notes:          draft.Notes,
	}
	var w appointmentWire
	if err := c.do(ctx, http.MethodPost, "/v1/appointments", body, &w); err != nil {
		return model.Appointment{}, err
	}
	return w.toModel()
}

func (c *HTTPClient) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (model.Appointment, error) {
	body := appointmentPatchWire{
		ClientID:       patch.ClientID,
		ProfessionalID: patch.ProfessionalID,
		ServiceID:      patch.ServiceID,
		StartTime:      patch.StartTime,
		EndTime:        patch.EndTime,
		Price:          patch.Price,
		Notes:          patch.Notes,
	}
	if patch.Date != nil {
		d := patch.Date.UTC().Format(wireDateFormat)
		body.Date = &d
	}
	if patch.Status != nil {
		s := string(*patch.Status)
		body.Status = &s
	}
	var w appointmentWire
	if err := c.do(ctx, http.MethodPatch, "/v1/appointments/"+id, body, &w); err != nil {
		return model.Appointment{}, err
	}
	return w.toModel()
}

func (c *HTTPClient) DeleteAppointment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/appointments/"+id, nil, nil)
}

func (c *HTTPClient) ListClients(ctx context.Context) ([]model.Client, error) {
	var wires []clientWire
	if err := c.do(ctx, http.MethodGet, "/v1/clients", nil, &wires); err != nil {
		return nil, err
	}
	out := make([]model.Client, 0, len(wires))
	for _, w := range wires {
		out = append(out, model.Client{ID: w.ID, Name: w.Name, Email: w.Email, Phone: w.Phone})
	}
	return out, nil
}

func (c *HTTPClient) ListServices(ctx context.Context) ([]model.Service, error) {
	var wires []serviceWire
	if err := c.do(ctx, http.MethodGet, "/v1/services", nil, &wires); err != nil {
		return nil, err
	}
	out := make([]model.Service, 0, len(wires))
	for _, w := range wires {
		out = append(out, model.Service{ID: w.ID, Name: w.Name, DurationMinutes: w.DurationMinutes, Price: w.Price})
	}
	return out, nil
}

func (c *HTTPClient) ListProfessionals(ctx context.Context) ([]model.Professional, error) {
	var wires []professionalWire
	if err := c.do(ctx, http.MethodGet, "/v1/professionals", nil, &wires); err != nil {
		return nil, err
	}
	out := make([]model.Professional, 0, len(wires))
	for _, w := range wires {
		out = append(out, model.Professional{ID: w.ID, Name: w.Name, Specialty: w.Specialty})
	}
	return out, nil
}

func (w appointmentWire) toModel() (model.Appointment, error) {
	date, err := time.ParseInLocation(wireDateFormat, w.Date, time.UTC)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("appointment %s: invalid date %q", w.ID, w.Date)
	}
	appt := model.Appointment{
		ID:             w.ID,
		ClientID:       w.ClientID,
		ProfessionalID: w.ProfessionalID,
		ServiceID:      w.ServiceID,
		Date:           date,
		StartTime:      w.StartTime,
		EndTime:        w.EndTime,
		Status:         model.Status(w.Status),
		Price:          w.Price,
		Notes:          w.Notes,
	}
	if w.CreatedAt != "" {
		if createdAt, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
			appt.CreatedAt = createdAt
		}
	}
	return appt, nil
}

// do performs one round-trip and unwraps the envelope. A store-reported
// failure becomes a *RemoteError carrying the store's message; transport and
// decode failures come back as plain errors.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s: decode envelope (status %d): %w", op, resp.StatusCode, err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("store returned status %d", resp.StatusCode)
		}
		return &RemoteError{Op: op, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", op, err)
	}
	return nil
}
