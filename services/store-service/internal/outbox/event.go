package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Appointment lifecycle events consumed by downstream reminder and
// analytics pipelines.
const (
	EventAppointmentCreated = "scheduling.appointment.created.v1"
	EventAppointmentUpdated = "scheduling.appointment.updated.v1"
	EventAppointmentDeleted = "scheduling.appointment.deleted.v1"
)
