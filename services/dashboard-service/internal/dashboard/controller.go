// Package dashboard composes the engine: it owns the raw fetched sets, the
// active filter parameters, and the mutation path against the remote store.
// All state lives on the Controller; there are no package-level globals.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/salonworks/salonboard/services/dashboard-service/internal/dataservice"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/filter"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/model"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/notify"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/stats"
)

var (
	ErrNotFound          = errors.New("appointment not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type Config struct {
	// AverageServiceMinutes feeds the stats placeholder until real duration
	// data exists.
	AverageServiceMinutes int
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// fetchState tracks one entity kind's in-flight fetch. gen increments every
// time a new fetch begins; a result carrying an older gen is stale and gets
// dropped instead of overwriting newer state.
type fetchState struct {
	loading bool
	gen     uint64
	err     error
}

type Controller struct {
	ds       dataservice.Client
	notifier notify.Notifier
	logger   *slog.Logger

	avgServiceMinutes int
	now               func() time.Time

	mu            sync.RWMutex
	appointments  []model.Appointment
	clients       []model.Client
	services      []model.Service
	professionals []model.Professional
	params        filter.Params

	apptState    fetchState
	clientState  fetchState
	serviceState fetchState
	proState     fetchState
}

func New(ds dataservice.Client, notifier notify.Notifier, logger *slog.Logger, cfg Config) *Controller {
	if cfg.AverageServiceMinutes <= 0 {
		cfg.AverageServiceMinutes = 45
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Controller{
		ds:                ds,
		notifier:          notifier,
		logger:            logger,
		avgServiceMinutes: cfg.AverageServiceMinutes,
		now:               cfg.Now,
		params:            filter.Defaults(cfg.Now()),
	}
}

// Refresh fetches all four entity kinds in parallel. A failing kind records
// its error without disturbing the others' results; the first failure is
// returned so callers can offer a retry.
func (c *Controller) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.RefreshAppointments(ctx) })
	g.Go(func() error { return c.refreshClients(ctx) })
	g.Go(func() error { return c.refreshServices(ctx) })
	g.Go(func() error { return c.refreshProfessionals(ctx) })
	return g.Wait()
}

// RefreshAppointments refetches the raw appointment set from the store. It
// is the authoritative sync after every mutation.
func (c *Controller) RefreshAppointments(ctx context.Context) error {
	gen := c.beginFetch(&c.apptState)
	appts, err := c.ds.ListAppointments(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.apptState.gen != gen {
		// A newer fetch superseded this one; whatever we got is stale.
		return nil
	}
	c.apptState.loading = false
	c.apptState.err = err
	if err != nil {
		return fmt.Errorf("fetch appointments: %w", err)
	}
	c.appointments = appts
	return nil
}

func (c *Controller) refreshClients(ctx context.Context) error {
	gen := c.beginFetch(&c.clientState)
	clients, err := c.ds.ListClients(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clientState.gen != gen {
		return nil
	}
	c.clientState.loading = false
	c.clientState.err = err
	if err != nil {
		return fmt.Errorf("fetch clients: %w", err)
	}
	c.clients = clients
	return nil
}

func (c *Controller) refreshServices(ctx context.Context) error {
	gen := c.beginFetch(&c.serviceState)
	services, err := c.ds.ListServices(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.serviceState.gen != gen {
		return nil
	}
	c.serviceState.loading = false
	c.serviceState.err = err
	if err != nil {
		return fmt.Errorf("fetch services: %w", err)
	}
	c.services = services
	return nil
}

func (c *Controller) refreshProfessionals(ctx context.Context) error {
	gen := c.beginFetch(&c.proState)
	pros, err := c.ds.ListProfessionals(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.proState.gen != gen {
		return nil
	}
	c.proState.loading = false
	c.proState.err = err
	if err != nil {
		return fmt.Errorf("fetch professionals: %w", err)
	}
	c.professionals = pros
	return nil
}

func (c *Controller) beginFetch(st *fetchState) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	st.gen++
	st.loading = true
	return st.gen
}

// Loading is the logical OR of the four fetch flags; consumers get no finer
// granularity.
func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apptState.loading || c.clientState.loading || c.serviceState.loading || c.proState.loading
}

// LastError joins the per-kind fetch errors, nil when every fetch succeeded.
func (c *Controller) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return errors.Join(c.apptState.err, c.clientState.err, c.serviceState.err, c.proState.err)
}

// Appointments returns the raw set narrowed by the active filter parameters.
func (c *Controller) Appointments() []model.Appointment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return filter.Apply(c.appointments, c.params, c.nameIndex())
}

// RawAppointments returns a copy of the full unfiltered set.
func (c *Controller) RawAppointments() []model.Appointment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Appointment(nil), c.appointments...)
}

func (c *Controller) Clients() []model.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Client(nil), c.clients...)
}

func (c *Controller) Services() []model.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Service(nil), c.services...)
}

func (c *Controller) Professionals() []model.Professional {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Professional(nil), c.professionals...)
}

// Stats aggregates over today's subset (and the whole set for the
// leaderboard), regardless of the window the list is showing.
func (c *Controller) Stats() stats.Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return stats.Compute(c.appointments, c.professionals, c.now(), c.avgServiceMinutes)
}

func (c *Controller) Params() filter.Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params
}

func (c *Controller) SetMode(m filter.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Mode = m
}

func (c *Controller) SetAnchor(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Anchor = model.DateOnly(t)
}

// ShiftAnchor moves the anchor by delta steps of the active mode.
func (c *Controller) ShiftAnchor(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Anchor = filter.Shift(c.params.Anchor, c.params.Mode, delta)
}

func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Query = q
}

func (c *Controller) SetStatusFilter(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Status = s
}

func (c *Controller) SetProfessionalFilter(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Professional = id
}

func (c *Controller) SetBucket(b filter.Bucket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Bucket = b
}

// nameIndex must be called with the lock held.
func (c *Controller) nameIndex() filter.NameIndex {
	idx := filter.NameIndex{
		Clients:       make(map[string]string, len(c.clients)),
		Professionals: make(map[string]string, len(c.professionals)),
		Services:      make(map[string]string, len(c.services)),
	}
	for _, cl := range c.clients {
		idx.Clients[cl.ID] = cl.Name
	}
	for _, p := range c.professionals {
		idx.Professionals[p.ID] = p.Name
	}
	for _, s := range c.services {
		idx.Services[s.ID] = s.Name
	}
	return idx
}

func (c *Controller) lookup(id string) (model.Appointment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, appt := range c.appointments {
		if appt.ID == id {
			return appt, true
		}
	}
	return model.Appointment{}, false
}
