package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/salonworks/salonboard/libs/db"
	"github.com/salonworks/salonboard/services/store-service/internal/model"
)

type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const appointmentColumns = `id, client_id, professional_id, service_id, date, start_time,
	COALESCE(end_time, ''), status, price, COALESCE(notes, ''), created_at, updated_at`

func (r *AppointmentRepository) List(ctx context.Context) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY date, start_time, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	return appts, rows.Err()
}

func (r *AppointmentRepository) Get(ctx context.Context, id string) (model.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

// Create assigns the ID and persists the appointment within tx. Repeated
// calls with identical payloads produce distinct records; the store offers
// no deduplication key.
func (r *AppointmentRepository) Create(ctx context.Context, tx pgx.Tx, appt *model.Appointment) error {
	appt.ID = uuid.NewString()
	return tx.QueryRow(ctx, `
		INSERT INTO appointments
			(id, client_id, professional_id, service_id, date, start_time, end_time, status, price, notes)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, NULLIF($10, ''))
		RETURNING created_at, updated_at
	`, appt.ID, appt.ClientID, appt.ProfessionalID, appt.ServiceID, appt.Date, appt.StartTime,
		appt.EndTime, appt.Status, appt.Price, appt.Notes).Scan(&appt.CreatedAt, &appt.UpdatedAt)
}

// AppointmentPatch applies only its non-nil fields.
type AppointmentPatch struct {
	ClientID       *string
	ProfessionalID *string
	ServiceID      *string
	Date           *time.Time
	StartTime      *string
	EndTime        *string
	Status         *string
	Price          *float64
	Notes          *string
}

func (p AppointmentPatch) Empty() bool {
	return p.ClientID == nil && p.ProfessionalID == nil && p.ServiceID == nil &&
		p.Date == nil && p.StartTime == nil && p.EndTime == nil &&
		p.Status == nil && p.Price == nil && p.Notes == nil
}

func (r *AppointmentRepository) Update(ctx context.Context, tx pgx.Tx, id string, patch AppointmentPatch) (model.Appointment, error) {
	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.ClientID != nil {
		set("client_id", *patch.ClientID)
	}
	if patch.ProfessionalID != nil {
		set("professional_id", *patch.ProfessionalID)
	}
	if patch.ServiceID != nil {
		set("service_id", *patch.ServiceID)
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	if patch.StartTime != nil {
		set("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		set("end_time", *patch.EndTime)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if len(sets) == 0 {
		return model.Appointment{}, errors.New("empty patch")
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE appointments
		SET %s, updated_at = now()
		WHERE id = $%d
		RETURNING `+appointmentColumns,
		strings.Join(sets, ", "), len(args))

	return scanAppointment(tx.QueryRow(ctx, query, args...))
}

func (r *AppointmentRepository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	var deleted string
	return tx.QueryRow(ctx, `
		DELETE FROM appointments
		WHERE id = $1
		RETURNING id
	`, id).Scan(&deleted)
}

func scanAppointment(row pgx.Row) (model.Appointment, error) {
	var appt model.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.ClientID,
		&appt.ProfessionalID,
		&appt.ServiceID,
		&appt.Date,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.Price,
		&appt.Notes,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return model.Appointment{}, err
	}
	return appt, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
