package model

// Rosters are owned by other subsystems; the dashboard only reads them to
// resolve display names and to rank professionals.

type Client struct {
	ID    string
	Name  string
	Email string
	Phone string
}

type Professional struct {
	ID        string
	Name      string
	Specialty string
}

type Service struct {
	ID              string
	Name            string
	DurationMinutes int
	Price           float64
}
