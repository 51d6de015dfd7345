package appliance

import (
	"fmt"

	"controlling_aircon/internal/ir"
)

// Controller is a Target driven by a Codebook. It is not safe for
// concurrent use; callers serialise access.
type Controller struct {
	codebook Codebook
	ladder   Ladder
	state    State
}

var _ Target = (*Controller)(nil)

func NewController(codebook Codebook, ladder Ladder, initial State) *Controller {
	return &Controller{codebook: codebook, ladder: ladder, state: initial}
}

func (c *Controller) Status() State  { return c.state }
func (c *Controller) Ladder() Ladder { return c.ladder }

// Restore adopts a state recorded earlier, e.g. after a restart.
func (c *Controller) Restore(st State) error {
	if !st.Mode.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(st.Mode))
	}
	if !c.ladder.Contains(st.Temperature) {
		return fmt.Errorf("%w: %d", ErrTemperatureRange, st.Temperature)
	}
	c.state = st
	return nil
}

func (c *Controller) PowerOn() (ir.Sequence, error) {
	next := c.state
	next.Powered = true
	return c.commit(next, TriggerOn)
}

func (c *Controller) PowerOff() (ir.Sequence, error) {
	next := c.state
	next.Powered = false
	return c.commit(next, TriggerOff)
}

func (c *Controller) TempUp() (ir.Sequence, error) {
	return c.step(c.state.Temperature+1, TriggerUp)
}

func (c *Controller) TempDown() (ir.Sequence, error) {
	return c.step(c.state.Temperature-1, TriggerDown)
}

// TempSet moves straight to temperature. Setting the current temperature
// returns ErrTemperatureSame and nothing to send.
func (c *Controller) TempSet(temperature int) (ir.Sequence, error) {
	switch {
	case temperature == c.state.Temperature:
		return nil, fmt.Errorf("%w: %d", ErrTemperatureSame, temperature)
	case temperature < c.state.Temperature:
		return c.step(temperature, TriggerDown)
	default:
		return c.step(temperature, TriggerUp)
	}
}

// ModeSet changes the mode and re-sends the power-on command for it.
func (c *Controller) ModeSet(mode Mode) (ir.Sequence, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	next := c.state
	next.Mode = mode
	return c.commit(next, TriggerOn)
}

func (c *Controller) step(temperature int, trigger Trigger) (ir.Sequence, error) {
	if !c.ladder.Contains(temperature) {
		return nil, fmt.Errorf("%w: %d not in %d..%d", ErrTemperatureRange, temperature, c.ladder.Min, c.ladder.Max)
	}
	next := c.state
	next.Temperature = temperature
	return c.commit(next, trigger)
}

func (c *Controller) commit(next State, trigger Trigger) (ir.Sequence, error) {
	seq, err := c.codebook.Sequence(next.Mode, next.Temperature, trigger)
	if err != nil {
		return nil, fmt.Errorf("resolve %s at %s/%d: %w", trigger, next.Mode, next.Temperature, err)
	}
	c.state = next
	return seq, nil
}
