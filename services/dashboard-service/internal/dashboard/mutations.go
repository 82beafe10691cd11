package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/salonworks/salonboard/services/dashboard-service/internal/dataservice"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/model"
)

// Mutations never patch local state optimistically. The store round-trip
// decides the outcome: success refetches the raw set (the store is the
// authority), failure leaves the displayed set exactly as it was and emits
// an error notification with the store's message.

func (c *Controller) CreateAppointment(ctx context.Context, draft model.AppointmentDraft) error {
	if _, err := c.ds.CreateAppointment(ctx, draft); err != nil {
		c.notifier.Error("could not create appointment: " + remoteMessage(err))
		return err
	}
	c.resync(ctx)
	c.notifier.Success("appointment created")
	return nil
}

func (c *Controller) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) error {
	if patch.Status != nil {
		cur, ok := c.lookup(id)
		if !ok {
			return ErrNotFound
		}
		if !model.CanTransition(cur.Status, *patch.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, *patch.Status)
		}
	}
	if _, err := c.ds.UpdateAppointment(ctx, id, patch); err != nil {
		c.notifier.Error("could not update appointment: " + remoteMessage(err))
		return err
	}
	c.resync(ctx)
	c.notifier.Success("appointment updated")
	return nil
}

func (c *Controller) DeleteAppointment(ctx context.Context, id string) error {
	if err := c.ds.DeleteAppointment(ctx, id); err != nil {
		c.notifier.Error("could not delete appointment: " + remoteMessage(err))
		return err
	}
	c.resync(ctx)
	c.notifier.Success("appointment deleted")
	return nil
}

// ConfirmAppointment is the explicit confirm action (pending -> confirmed).
func (c *Controller) ConfirmAppointment(ctx context.Context, id string) error {
	status := model.StatusConfirmed
	return c.UpdateAppointment(ctx, id, model.AppointmentPatch{Status: &status})
}

// CancelAppointment is the explicit cancel action, legal from any
// non-terminal state.
func (c *Controller) CancelAppointment(ctx context.Context, id string) error {
	status := model.StatusCancelled
	return c.UpdateAppointment(ctx, id, model.AppointmentPatch{Status: &status})
}

// resync refetches the raw set after a confirmed mutation. A failed refetch
// keeps the previous (still consistent) set; the next refresh catches up.
func (c *Controller) resync(ctx context.Context) {
	if err := c.RefreshAppointments(ctx); err != nil {
		c.logger.Warn("refetch after mutation failed", "err", err)
	}
}

func remoteMessage(err error) string {
	var remote *dataservice.RemoteError
	if errors.As(err, &remote) {
		return remote.Message
	}
	return err.Error()
}
