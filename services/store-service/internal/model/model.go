package model

import "time"

type Appointment struct {
	ID             string
	ClientID       string
	ProfessionalID string
	ServiceID      string
	Date           time.Time
	StartTime      string
	EndTime        string
	Status         string
	Price          float64
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

type Professional struct {
	ID        string
	Name      string
	Specialty string
	CreatedAt time.Time
}

type Service struct {
	ID              string
	Name            string
	DurationMinutes int
	Price           float64
	CreatedAt       time.Time
}

// StatusDefault is assigned when a create omits the status.
const StatusDefault = "pending"
