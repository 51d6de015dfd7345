// Package aeha implements the AEHA pulse-timing format used by Japanese
// air-conditioner remotes.
//
// A frame is a leader (8 cycles mark, 4 cycles space) followed by LSB-first
// data bits and a single stop mark. Every bit is a one-cycle mark followed by
// a one-cycle (0) or three-cycle (1) space. A repeat frame replaces the
// leader space with 8 cycles and carries no data. Frames are separated by a
// stop mark and a long space.
package aeha

import (
	"errors"
	"fmt"

	"controlling_aircon/internal/ir"
)

// Timing constants in microseconds.
const (
	StdCycle   = 425
	WaitLength = 10000
	Tolerance  = 0.35

	// MinPulses is the shortest sequence worth decoding.
	MinPulses = 10
	// MaxFrameBytes bounds a single encoded frame.
	MaxFrameBytes = 64
)

// Decode errors.
var (
	ErrTooShort      = errors.New("input is too short")
	ErrOddEnd        = errors.New("sequence ended with odd number of pulses")
	ErrUnknownEnd    = errors.New("sequence was neither leader nor repeat")
	ErrInvalidBits   = errors.New("sequence ended with invalid number of bits")
	ErrUnknownBit    = errors.New("unknown bit")
	ErrUnexpectedEnd = errors.New("unexpected end of data")
	ErrFrameCount    = errors.New("expected exactly one frame")
)

// Encode errors.
var (
	ErrEmptyFrame   = errors.New("a frame was empty")
	ErrFrameTooLong = fmt.Errorf("a frame exceeds %d bytes", MaxFrameBytes)
)

// DecodeError reports where in the sequence decoding stopped.
type DecodeError struct {
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("aeha decode at pulse %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(i int, err error) error {
	return &DecodeError{Index: i, Err: err}
}

// InBounds reports whether p lies strictly within the tolerance band around
// the given number of standard cycles.
func InBounds(p ir.Pulse, cycles uint32) bool {
	target := float64(StdCycle * cycles)
	v := float64(p)
	return v > target*(1-Tolerance) && v < target*(1+Tolerance)
}

// VerifyLeader reports whether the pair opens a data frame.
func VerifyLeader(mark, space ir.Pulse) bool {
	return InBounds(mark, 8) && InBounds(space, 4)
}

// VerifyRepeat reports whether the pair opens a repeat frame.
func VerifyRepeat(mark, space ir.Pulse) bool {
	return InBounds(mark, 8) && InBounds(space, 8)
}

// Decode converts a captured sequence into its frames. Repeat frames are
// returned as empty frames.
func Decode(seq ir.Sequence) ([]ir.Frame, error) {
	if len(seq) < MinPulses {
		return nil, decodeErr(0, ErrTooShort)
	}
	if !VerifyLeader(seq[0], seq[1]) && !VerifyRepeat(seq[0], seq[1]) {
		return nil, decodeErr(0, ErrUnknownEnd)
	}

	var (
		frames     []ir.Frame
		current    = ir.Frame{}
		value      byte
		bit        uint
		endOfFrame bool
	)

	for i := 2; i < len(seq); i += 2 {
		mark := seq[i]

		// lone trailing mark: stop bit of the last frame
		if i+1 == len(seq) {
			if endOfFrame {
				return nil, decodeErr(i, ErrOddEnd)
			}
			if !InBounds(mark, 1) || bit != 0 {
				return nil, decodeErr(i, ErrInvalidBits)
			}
			return append(frames, current), nil
		}
		space := seq[i+1]

		if endOfFrame {
			if !VerifyLeader(mark, space) && !VerifyRepeat(mark, space) {
				return nil, decodeErr(i, ErrUnknownEnd)
			}
			endOfFrame = false
			continue
		}

		if !InBounds(mark, 1) {
			return nil, decodeErr(i, ErrUnknownBit)
		}

		switch {
		case space > WaitLength/2:
			if bit != 0 {
				return nil, decodeErr(i, ErrInvalidBits)
			}
			frames = append(frames, current)
			current = ir.Frame{}
			value = 0
			endOfFrame = true
			continue
		case InBounds(space, 1):
		case InBounds(space, 3):
			value |= 1 << bit
		default:
			return nil, decodeErr(i+1, ErrUnknownBit)
		}

		bit = (bit + 1) % 8
		if bit == 0 {
			current = append(current, value)
			value = 0
		}
	}

	return nil, decodeErr(len(seq), ErrUnexpectedEnd)
}

// DecodeFrame decodes a sequence expected to hold exactly one frame.
func DecodeFrame(seq ir.Sequence) (ir.Frame, error) {
	frames, err := Decode(seq)
	if err != nil {
		return nil, err
	}
	if len(frames) != 1 {
		return nil, decodeErr(len(seq), fmt.Errorf("%w, got %d", ErrFrameCount, len(frames)))
	}
	return frames[0], nil
}

// EncodedLength is the pulse count of an encoded frame of n bytes.
func EncodedLength(n int) int {
	return 2 + n*16 + 1
}

// Encode builds the pulse sequence for a single data frame.
func Encode(frame ir.Frame) (ir.Sequence, error) {
	return appendFrame(make(ir.Sequence, 0, EncodedLength(len(frame))), frame)
}

// EncodeFrames builds one sequence carrying several data frames separated by
// the inter-frame wait.
func EncodeFrames(frames ...ir.Frame) (ir.Sequence, error) {
	if len(frames) == 0 {
		return nil, ErrEmptyFrame
	}
	var (
		out ir.Sequence
		err error
	)
	for i, f := range frames {
		if i > 0 {
			out = append(out, WaitLength)
		}
		if out, err = appendFrame(out, f); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return out, nil
}

func appendFrame(out ir.Sequence, frame ir.Frame) (ir.Sequence, error) {
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}
	if len(frame) > MaxFrameBytes {
		return nil, ErrFrameTooLong
	}

	out = append(out, StdCycle*8, StdCycle*4)
	for _, b := range frame {
		for bit := 0; bit < 8; bit++ {
			out = append(out, StdCycle)
			if b&(1<<bit) == 0 {
				out = append(out, StdCycle)
			} else {
				out = append(out, StdCycle*3)
			}
		}
	}
	return append(out, StdCycle), nil
}
