// Package hardware is the boundary between the IR pipeline and the pins it
// drives. Everything above this package talks to the interfaces only.
package hardware

import (
	"errors"
	"time"
)

// EdgeSource delivers a timestamp for every rising and falling edge of the
// IR receiver. The callback runs on the source's own goroutine and must not
// block.
type EdgeSource interface {
	Watch(fn func(at time.Time)) error
	Unwatch() error
}

// OutputPin is a digital output driven directly by level.
type OutputPin interface {
	Out(high bool) error
}

// StepKind distinguishes carrier bursts from silent waits.
type StepKind int

const (
	StepCarrier StepKind = iota
	StepWait
)

// Step is one element of a carrier/wait program.
type Step struct {
	Kind StepKind
	// Period and Width describe one carrier burst.
	Period time.Duration
	Width  time.Duration
	// Length is the silent time of a wait step.
	Length time.Duration
}

// Duration is the wall time the step occupies.
func (s Step) Duration() time.Duration {
	if s.Kind == StepCarrier {
		return s.Period
	}
	return s.Length
}

// StepDriver plays a carrier/wait program once, as a single unit.
type StepDriver interface {
	PlaySteps(steps []Step) error
}

var (
	ErrAlreadyWatching = errors.New("edge source is already watching")
	ErrPinNotFound     = errors.New("gpio pin not found")
)
