package transmit

import (
	"fmt"
	"time"

	"controlling_aircon/internal/hardware"
	"controlling_aircon/internal/ir"
)

// Carrier burst shape used for every mark.
const (
	CarrierCycle  = 26 * time.Microsecond
	CarrierPeriod = 18 * time.Microsecond
	CarrierWidth  = 8 * time.Microsecond
)

// DirectPlayer drives the pin high for marks and low for spaces. The
// receiver side is expected to add the carrier.
type DirectPlayer struct {
	pin   hardware.OutputPin
	sleep func(time.Duration)
}

func NewDirectPlayer(pin hardware.OutputPin) *DirectPlayer {
	return &DirectPlayer{pin: pin, sleep: time.Sleep}
}

func (p *DirectPlayer) Play(seq ir.Sequence) error {
	for i, pulse := range seq {
		mark := i%2 == 0
		if err := p.pin.Out(mark); err != nil {
			_ = p.pin.Out(false)
			return fmt.Errorf("pulse %d: %w", i, err)
		}
		p.sleep(pulse.Duration())
	}
	if err := p.pin.Out(false); err != nil {
		return fmt.Errorf("release output: %w", err)
	}
	return nil
}

// CarrierPlayer submits the whole sequence as one carrier program.
type CarrierPlayer struct {
	driver hardware.StepDriver
}

func NewCarrierPlayer(driver hardware.StepDriver) *CarrierPlayer {
	return &CarrierPlayer{driver: driver}
}

func (p *CarrierPlayer) Play(seq ir.Sequence) error {
	if err := p.driver.PlaySteps(CarrierSteps(seq)); err != nil {
		return fmt.Errorf("play carrier program: %w", err)
	}
	return nil
}

// CarrierSteps expands each mark into floor(mark/26µs) carrier bursts and
// each space into one wait of the same length.
func CarrierSteps(seq ir.Sequence) []hardware.Step {
	steps := make([]hardware.Step, 0, len(seq)*8)
	for i, pulse := range seq {
		d := pulse.Duration()
		if i%2 == 1 {
			steps = append(steps, hardware.Step{Kind: hardware.StepWait, Length: d})
			continue
		}
		for n := int(d / CarrierCycle); n > 0; n-- {
			steps = append(steps, hardware.Step{
				Kind:   hardware.StepCarrier,
				Period: CarrierPeriod,
				Width:  CarrierWidth,
			})
		}
	}
	return steps
}
