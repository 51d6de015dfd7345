package models

import "time"

// Event types recorded in the command log.
const (
	EventPowerOn     = "POWER_ON"
	EventPowerOff    = "POWER_OFF"
	EventTemperature = "TEMPERATURE"
	EventMode        = "MODE"
	EventSend        = "SEND"
	EventError       = "ERROR"
	EventStatus      = "STATUS"
)

// ApplianceEvent is a single command log entry.
type ApplianceEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // POWER_ON | POWER_OFF | TEMPERATURE | MODE | STATUS | SEND | ERROR
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
