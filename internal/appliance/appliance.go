// Package appliance models an IR-controlled air conditioner: its logical
// state, the commands it accepts and the codebook that turns a command into
// a pulse sequence.
package appliance

import (
	"errors"
	"fmt"
	"strings"

	"controlling_aircon/internal/ir"
)

var (
	ErrTemperatureRange = errors.New("temperature out of range")
	ErrTemperatureSame  = errors.New("temperature already set")
	ErrUnknownMode      = errors.New("unknown mode")
	ErrNoSequence       = errors.New("no sequence for command")
)

// Mode is the operating mode of the unit.
type Mode int

const (
	ModeAuto Mode = iota
	ModeWarm
	ModeDry
	ModeCool
	ModeFan
)

var modeNames = [...]string{"auto", "warm", "dry", "cool", "fan"}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeAuto, ModeWarm, ModeDry, ModeCool, ModeFan}
}

func (m Mode) Valid() bool { return m >= ModeAuto && m <= ModeFan }

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts a mode name in any letter case.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Trigger is the action a command asks of the unit.
type Trigger int

const (
	TriggerUp Trigger = iota
	TriggerDown
	TriggerOn
	TriggerOff
)

func (t Trigger) String() string {
	switch t {
	case TriggerUp:
		return "up"
	case TriggerDown:
		return "down"
	case TriggerOn:
		return "on"
	case TriggerOff:
		return "off"
	default:
		return fmt.Sprintf("trigger(%d)", int(t))
	}
}

// Ladder is the inclusive range of settable temperatures in °C.
type Ladder struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (l Ladder) Contains(t int) bool { return t >= l.Min && t <= l.Max }

// Steps returns every temperature on the ladder, lowest first.
func (l Ladder) Steps() []int {
	out := make([]int, 0, l.Max-l.Min+1)
	for t := l.Min; t <= l.Max; t++ {
		out = append(out, t)
	}
	return out
}

// State is what the controller believes the unit is doing.
type State struct {
	Powered     bool `json:"powered"`
	Mode        Mode `json:"mode"`
	Temperature int  `json:"temperature"`
}

// Target is implemented by every vendor controller. Each command returns
// the sequence to transmit; on error the state is left untouched.
type Target interface {
	PowerOn() (ir.Sequence, error)
	PowerOff() (ir.Sequence, error)
	TempUp() (ir.Sequence, error)
	TempDown() (ir.Sequence, error)
	TempSet(temperature int) (ir.Sequence, error)
	ModeSet(mode Mode) (ir.Sequence, error)
	Status() State
	Ladder() Ladder
	// Restore replaces the believed state without sending anything.
	Restore(State) error
}

// Codebook resolves the sequence for a command at the given settings.
type Codebook interface {
	Sequence(mode Mode, temperature int, trigger Trigger) (ir.Sequence, error)
}
