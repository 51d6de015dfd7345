package appliance

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"controlling_aircon/internal/ir"
)

type call struct {
	mode        Mode
	temperature int
	trigger     Trigger
}

// fakeCodebook encodes the command into the pulses so tests can see which
// lookup produced a sequence.
type fakeCodebook struct {
	calls []call
	err   error
}

func (f *fakeCodebook) Sequence(mode Mode, temperature int, trigger Trigger) (ir.Sequence, error) {
	f.calls = append(f.calls, call{mode, temperature, trigger})
	if f.err != nil {
		return nil, f.err
	}
	return ir.Sequence{ir.Pulse(mode), ir.Pulse(temperature), ir.Pulse(trigger)}, nil
}

func newTestController(cb Codebook) *Controller {
	return NewController(cb, Ladder{Min: 16, Max: 30}, State{Mode: ModeCool, Temperature: 16})
}

func TestController_Power(t *testing.T) {
	cb := &fakeCodebook{}
	c := newTestController(cb)

	seq, err := c.PowerOn()
	require.NoError(t, err)
	assert.Equal(t, ir.Sequence{ir.Pulse(ModeCool), 16, ir.Pulse(TriggerOn)}, seq)
	assert.True(t, c.Status().Powered)

	seq, err = c.PowerOff()
	require.NoError(t, err)
	assert.Equal(t, ir.Pulse(TriggerOff), seq[2])
	assert.False(t, c.Status().Powered)
}

func TestController_TempUpDownBounds(t *testing.T) {
	c := newTestController(&fakeCodebook{})

	_, err := c.TempDown()
	assert.ErrorIs(t, err, ErrTemperatureRange)
	assert.Equal(t, 16, c.Status().Temperature)

	for want := 17; want <= 30; want++ {
		seq, err := c.TempUp()
		require.NoError(t, err)
		assert.Equal(t, ir.Pulse(want), seq[1])
	}
	_, err = c.TempUp()
	assert.ErrorIs(t, err, ErrTemperatureRange)
	assert.Equal(t, 30, c.Status().Temperature)

	seq, err := c.TempDown()
	require.NoError(t, err)
	assert.Equal(t, ir.Sequence{ir.Pulse(ModeCool), 29, ir.Pulse(TriggerDown)}, seq)
}

func TestController_TempSet(t *testing.T) {
	cb := &fakeCodebook{}
	c := newTestController(cb)

	seq, err := c.TempSet(24)
	require.NoError(t, err)
	assert.Equal(t, ir.Pulse(TriggerUp), seq[2], "higher target steps up")
	assert.Equal(t, 24, c.Status().Temperature)

	seq, err = c.TempSet(20)
	require.NoError(t, err)
	assert.Equal(t, ir.Pulse(TriggerDown), seq[2], "lower target steps down")

	calls := len(cb.calls)
	_, err = c.TempSet(20)
	assert.ErrorIs(t, err, ErrTemperatureSame)
	assert.Len(t, cb.calls, calls, "nothing is resolved for the current temperature")

	_, err = c.TempSet(31)
	assert.ErrorIs(t, err, ErrTemperatureRange)
	_, err = c.TempSet(15)
	assert.ErrorIs(t, err, ErrTemperatureRange)
	assert.Equal(t, 20, c.Status().Temperature)
}

func TestController_ModeSetReemitsOn(t *testing.T) {
	c := newTestController(&fakeCodebook{})

	seq, err := c.ModeSet(ModeDry)
	require.NoError(t, err)
	assert.Equal(t, ir.Sequence{ir.Pulse(ModeDry), 16, ir.Pulse(TriggerOn)}, seq)
	assert.Equal(t, ModeDry, c.Status().Mode)
	assert.False(t, c.Status().Powered)

	_, err = c.ModeSet(Mode(42))
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, ModeDry, c.Status().Mode)
}

func TestController_StateUntouchedOnLookupFailure(t *testing.T) {
	cb := &fakeCodebook{err: ErrNoSequence}
	c := newTestController(cb)
	before := c.Status()

	for name, op := range map[string]func() (ir.Sequence, error){
		"power_on":  c.PowerOn,
		"power_off": c.PowerOff,
		"temp_up":   c.TempUp,
		"temp_set":  func() (ir.Sequence, error) { return c.TempSet(22) },
		"mode_set":  func() (ir.Sequence, error) { return c.ModeSet(ModeFan) },
	} {
		_, err := op()
		assert.ErrorIs(t, err, ErrNoSequence, name)
		assert.Equal(t, before, c.Status(), name)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := ParseMode(" COOL ")
	require.NoError(t, err)
	assert.Equal(t, ModeCool, got)

	_, err = ParseMode("turbo")
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestStateJSON(t *testing.T) {
	raw, err := json.Marshal(State{Powered: true, Mode: ModeWarm, Temperature: 22})
	require.NoError(t, err)
	assert.JSONEq(t, `{"powered":true,"mode":"warm","temperature":22}`, string(raw))

	var st State
	require.NoError(t, json.Unmarshal([]byte(`{"powered":false,"mode":"Fan","temperature":18}`), &st))
	assert.Equal(t, State{Mode: ModeFan, Temperature: 18}, st)

	assert.Error(t, json.Unmarshal([]byte(`{"mode":"turbo"}`), &st))
}

func TestLadderSteps(t *testing.T) {
	l := Ladder{Min: 16, Max: 18}
	assert.Equal(t, []int{16, 17, 18}, l.Steps())
	assert.True(t, l.Contains(18))
	assert.False(t, l.Contains(19))
}

func TestController_Restore(t *testing.T) {
	c := newTestController(&fakeCodebook{})

	require.NoError(t, c.Restore(State{Powered: true, Mode: ModeWarm, Temperature: 25}))
	assert.Equal(t, State{Powered: true, Mode: ModeWarm, Temperature: 25}, c.Status())

	assert.ErrorIs(t, c.Restore(State{Mode: ModeWarm, Temperature: 40}), ErrTemperatureRange)
	assert.ErrorIs(t, c.Restore(State{Mode: Mode(-1), Temperature: 20}), ErrUnknownMode)
	assert.Equal(t, 25, c.Status().Temperature)
}
