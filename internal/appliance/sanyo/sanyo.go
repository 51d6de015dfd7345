// Package sanyo implements the Sanyo air conditioner remote.
package sanyo

import "controlling_aircon/internal/appliance"

const (
	MinTemperature = 16
	MaxTemperature = 30

	// PayloadLength is the byte length of every command frame.
	PayloadLength  = 17
	// SequenceLength is the pulse count of an encoded command: leader,
	// 136 data bits as mark/space pairs, stop mark.
	SequenceLength = 2 + PayloadLength*8*2 + 1
)

// Ladder is the settable temperature range.
var Ladder = appliance.Ladder{Min: MinTemperature, Max: MaxTemperature}

// InitialState is assumed at startup: off, cooling at the lowest setting.
func InitialState() appliance.State {
	return appliance.State{Powered: false, Mode: appliance.ModeCool, Temperature: MinTemperature}
}

// New returns a controller for the unit backed by codebook.
func New(codebook appliance.Codebook) *appliance.Controller {
	return appliance.NewController(codebook, Ladder, InitialState())
}

