// Package dataservice is the dashboard's view of the remote store. Every
// response crosses the wire in a single typed envelope, so nothing past this
// boundary ever re-checks payload shape.
package dataservice

import (
	"context"
	"fmt"

	"github.com/salonworks/salonboard/services/dashboard-service/internal/model"
)

// Client is the CRUD contract the engine consumes. The store assigns IDs on
// create and is the authority on the stored state; the engine refetches
// rather than trusting local merges.
type Client interface {
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	CreateAppointment(ctx context.Context, draft model.AppointmentDraft) (model.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (model.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error

	ListClients(ctx context.Context) ([]model.Client, error)
	ListServices(ctx context.Context) ([]model.Service, error)
	ListProfessionals(ctx context.Context) ([]model.Professional, error)
}

// RemoteError is a failure reported by the store itself, as opposed to a
// transport failure. Its message is human-readable and safe to surface in a
// notification.
type RemoteError struct {
	Op      string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
