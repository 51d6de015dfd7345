package service

import "time"

// StatusParams is a desired appliance status. Nil fields keep their value.
type StatusParams struct {
	Powered     *bool
	Mode        *string // auto | warm | dry | cool | fan
	Temperature *int
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "POWER_ON", "POWER_OFF", "TEMPERATURE", "MODE", "STATUS", "SEND", "ERROR"
	Limit int       // keep only the newest N; zero keeps all
}
