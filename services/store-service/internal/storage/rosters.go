package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/salonworks/salonboard/libs/db"
	"github.com/salonworks/salonboard/services/store-service/internal/model"
)

// Roster repositories back the client, service, and professional lists the
// dashboard reads. Professionals keep insertion order: the stats leaderboard
// breaks ties by who was enrolled first.

type ClientRepository struct {
	pool *db.Pool
}

func NewClientRepository(pool *db.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) List(ctx context.Context) ([]model.Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
		FROM clients
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []model.Client
	for rows.Next() {
		var c model.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Create(ctx context.Context, c *model.Client) error {
	c.ID = uuid.NewString()
	return r.pool.QueryRow(ctx, `
		INSERT INTO clients (id, name, email, phone)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		RETURNING created_at
	`, c.ID, c.Name, c.Email, c.Phone).Scan(&c.CreatedAt)
}

func (r *ClientRepository) Update(ctx context.Context, id, name, email, phone string) (model.Client, error) {
	var c model.Client
	err := r.pool.QueryRow(ctx, `
		UPDATE clients
		SET name = $2, email = NULLIF($3, ''), phone = NULLIF($4, '')
		WHERE id = $1
		RETURNING id, name, COALESCE(email, ''), COALESCE(phone, ''), created_at
	`, id, name, email, phone).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	return c, err
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	var deleted string
	return r.pool.QueryRow(ctx, `
		DELETE FROM clients
		WHERE id = $1
		RETURNING id
	`, id).Scan(&deleted)
}

type ServiceRepository struct {
	pool *db.Pool
}

func NewServiceRepository(pool *db.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

func (r *ServiceRepository) List(ctx context.Context) ([]model.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, duration_minutes, price, created_at
		FROM services
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.DurationMinutes, &s.Price, &s.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *ServiceRepository) Create(ctx context.Context, s *model.Service) error {
	s.ID = uuid.NewString()
	return r.pool.QueryRow(ctx, `
		INSERT INTO services (id, name, duration_minutes, price)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, s.ID, s.Name, s.DurationMinutes, s.Price).Scan(&s.CreatedAt)
}

type ProfessionalRepository struct {
	pool *db.Pool
}

func NewProfessionalRepository(pool *db.Pool) *ProfessionalRepository {
	return &ProfessionalRepository{pool: pool}
}

func (r *ProfessionalRepository) List(ctx context.Context) ([]model.Professional, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(specialty, ''), created_at
		FROM professionals
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pros []model.Professional
	for rows.Next() {
		var p model.Professional
		if err := rows.Scan(&p.ID, &p.Name, &p.Specialty, &p.CreatedAt); err != nil {
			return nil, err
		}
		pros = append(pros, p)
	}
	return pros, rows.Err()
}

func (r *ProfessionalRepository) Create(ctx context.Context, p *model.Professional) error {
	p.ID = uuid.NewString()
	return r.pool.QueryRow(ctx, `
		INSERT INTO professionals (id, name, specialty)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING created_at
	`, p.ID, p.Name, p.Specialty).Scan(&p.CreatedAt)
}
