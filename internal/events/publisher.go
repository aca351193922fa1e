package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event types published after successful mutations
const (
	PatientCreated           = "patient.created"
	PatientUpdated           = "patient.updated"
	PatientDeleted           = "patient.deleted"
	AppointmentCreated       = "appointment.created"
	AppointmentStatusChanged = "appointment.status_changed"
	AppointmentDeleted       = "appointment.deleted"
)

// Event register change notification
type Event struct {
	Type       string    `json:"type"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

// Publisher delivers events to an external channel
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop drops every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Notifier publishes best-effort: failures are logged and never returned
type Notifier struct {
	pub    Publisher
	logger *zap.Logger
}

func NewNotifier(pub Publisher, logger *zap.Logger) *Notifier {
	if pub == nil {
		pub = Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{pub: pub, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, eventType string, entityID int64, data any) {
	ev := Event{Type: eventType, EntityID: entityID, OccurredAt: time.Now().UTC(), Data: data}
	if err := n.pub.Publish(ctx, ev); err != nil {
		n.logger.Warn("event publish failed",
			zap.String("type", eventType),
			zap.Int64("entity_id", entityID),
			zap.Error(err),
		)
	}
}

func (n *Notifier) Close() error { return n.pub.Close() }
