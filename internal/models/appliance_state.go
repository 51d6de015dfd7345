package models

import "time"

// ApplianceState is the persisted and reported controller state.
type ApplianceState struct {
	Powered        bool      `json:"powered"`
	Mode           string    `json:"mode"` // auto | warm | dry | cool | fan
	Temperature    int       `json:"temperature"`
	MinTemperature int       `json:"min_temperature,omitempty"`
	MaxTemperature int       `json:"max_temperature,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}
