// Package ir holds the signal types shared by the capture, codec and
// transmit packages.
package ir

import (
	"fmt"
	"strings"
	"time"
)

// Pulse is a single mark or space length in microseconds.
type Pulse uint32

// Duration converts the pulse to a time.Duration.
func (p Pulse) Duration() time.Duration {
	return time.Duration(p) * time.Microsecond
}

// Sequence is an ordered list of pulses alternating mark/space, starting with a mark.
type Sequence []Pulse

// Clone returns an independent copy of s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// Micros returns the pulses as plain integers (JSON friendly).
func (s Sequence) Micros() []uint32 {
	out := make([]uint32, len(s))
	for i, p := range s {
		out[i] = uint32(p)
	}
	return out
}

// Equal reports whether both sequences hold the same pulses.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// SequenceFromMicros builds a sequence from raw microsecond values.
func SequenceFromMicros(us []uint32) Sequence {
	out := make(Sequence, len(us))
	for i, v := range us {
		out[i] = Pulse(v)
	}
	return out
}

// Frame is a decoded payload. An empty frame is a repeat frame.
type Frame []byte

// IsRepeat reports whether the frame carries no payload.
func (f Frame) IsRepeat() bool { return len(f) == 0 }

func (f Frame) String() string {
	if f.IsRepeat() {
		return "Repeat"
	}
	parts := make([]string, len(f))
	for i, b := range f {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return strings.Join(parts, ", ")
}

// Normalization grid boundaries and steps.
const (
	fineLimit   = 1000
	fineStep    = 10
	mediumLimit = 2000
	mediumStep  = 50
	coarseStep  = 200
)

// Normalize snaps a raw duration to the tick grid used before tolerance
// comparisons: 10µs below 1ms, 50µs below 2ms, 200µs above.
func Normalize(d time.Duration) Pulse {
	us := uint64(d / time.Microsecond)
	switch {
	case us < fineLimit:
		return Pulse(roundTo(us, fineStep))
	case us < mediumLimit:
		return Pulse(roundTo(us, mediumStep))
	default:
		return Pulse(roundTo(us, coarseStep))
	}
}

// roundTo rounds half up to the nearest multiple of step.
func roundTo(v, step uint64) uint64 {
	rem := v % step
	if rem >= step/2 {
		return v + (step - rem)
	}
	return v - rem
}
