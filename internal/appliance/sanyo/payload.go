package sanyo

import (
	"fmt"

	"controlling_aircon/internal/appliance"
	"controlling_aircon/internal/ir"
	"controlling_aircon/internal/ir/aeha"
)

// template holds the fixed bytes of a command; offsets 5, 6, 8 and 16 are
// filled per command.
var template = [PayloadLength]byte{64, 0, 20, 128, 67, 0, 0, 64, 0, 0, 104, 0, 0, 1, 0, 0, 0}

// Payload builds the command frame. The mode does not change the frame; the
// remote's mode bits have not been decoded yet.
func Payload(_ appliance.Mode, temperature int, trigger appliance.Trigger) ir.Frame {
	ind := byte(temperature - MinTemperature)

	frame := make(ir.Frame, PayloadLength)
	copy(frame, template[:])

	switch trigger {
	case appliance.TriggerOff:
		frame[5] = 133
	case appliance.TriggerOn:
		frame[5] = 134
	default:
		frame[5] = 132
	}

	frame[6] = 24 + ind*2

	if trigger == appliance.TriggerOff {
		frame[8] = 3
	} else {
		frame[8] = 35
	}

	var check byte
	switch {
	case temperature <= 19:
		check = 60 + ind*2
	case temperature >= 28:
		check = 54 + (ind-12)*2
	default:
		check = 53 + (ind-4)*2
	}
	switch trigger {
	case appliance.TriggerOn:
		check += 3
	case appliance.TriggerUp, appliance.TriggerDown:
		check++
	}
	frame[16] = check

	return frame
}

// Procedural computes every command from the payload template.
type Procedural struct{}

func (Procedural) Sequence(mode appliance.Mode, temperature int, trigger appliance.Trigger) (ir.Sequence, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", appliance.ErrUnknownMode, int(mode))
	}
	if !Ladder.Contains(temperature) {
		return nil, fmt.Errorf("%w: %d", appliance.ErrTemperatureRange, temperature)
	}
	seq, err := aeha.Encode(Payload(mode, temperature, trigger))
	if err != nil {
		return nil, fmt.Errorf("encode sanyo payload: %w", err)
	}
	return seq, nil
}
