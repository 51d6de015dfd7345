package transmit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"controlling_aircon/internal/hardware"
	"controlling_aircon/internal/ir"
	"controlling_aircon/internal/logger"
)

type recordingPlayer struct {
	mu     sync.Mutex
	played []ir.Sequence
	fail   map[int]error
}

func (p *recordingPlayer) Play(seq ir.Sequence) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, seq)
	return p.fail[len(p.played)]
}

func (p *recordingPlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.played)
}

func TestTransmitter_PlaysInOrderAndSurvivesErrors(t *testing.T) {
	player := &recordingPlayer{fail: map[int]error{1: errors.New("pin busy")}}
	tx := New(player, 4, logger.New(zaptest.NewLogger(t)))

	ctx, cancel := context.WithCancel(context.Background())
	go tx.Run(ctx)

	first := ir.Sequence{3400, 1700, 430}
	second := ir.Sequence{3400, 3400, 430}
	require.NoError(t, tx.Send(ctx, first))
	require.NoError(t, tx.Send(ctx, second))

	require.Eventually(t, func() bool { return player.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []ir.Sequence{first, second}, player.played)

	cancel()
	<-tx.Done()
	assert.ErrorIs(t, tx.Send(context.Background(), first), ErrStopped)
}

func TestTransmitter_SendCopiesSequence(t *testing.T) {
	player := &recordingPlayer{}
	tx := New(player, 1, logger.Nop())

	seq := ir.Sequence{3400, 1700}
	require.NoError(t, tx.Send(context.Background(), seq))
	seq[0] = 1

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tx.Run(ctx)

	require.Eventually(t, func() bool { return player.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, ir.Sequence{3400, 1700}, player.played[0])
}

func TestTransmitter_SendHonoursContextWhenQueueFull(t *testing.T) {
	tx := New(&recordingPlayer{}, 1, logger.Nop())
	require.NoError(t, tx.Send(context.Background(), ir.Sequence{425}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tx.Send(ctx, ir.Sequence{425}), context.DeadlineExceeded)
}

type levelPin struct {
	levels []bool
	err    error
}

func (p *levelPin) Out(high bool) error {
	p.levels = append(p.levels, high)
	if p.err != nil && high {
		return p.err
	}
	return nil
}

func TestDirectPlayer(t *testing.T) {
	pin := &levelPin{}
	var slept []time.Duration
	p := NewDirectPlayer(pin)
	p.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(t, p.Play(ir.Sequence{3400, 1700, 430}))
	assert.Equal(t, []bool{true, false, true, false}, pin.levels)
	assert.Equal(t, []time.Duration{3400 * time.Microsecond, 1700 * time.Microsecond, 430 * time.Microsecond}, slept)
}

func TestDirectPlayer_ReleasesPinOnError(t *testing.T) {
	pin := &levelPin{err: errors.New("gpio write failed")}
	p := NewDirectPlayer(pin)
	p.sleep = func(time.Duration) {}

	err := p.Play(ir.Sequence{3400, 1700})
	require.ErrorIs(t, err, pin.err)
	assert.Equal(t, []bool{true, false}, pin.levels)
}

type stepRecorder struct {
	steps []hardware.Step
}

func (r *stepRecorder) PlaySteps(steps []hardware.Step) error {
	r.steps = steps
	return nil
}

func TestCarrierSteps(t *testing.T) {
	steps := CarrierSteps(ir.Sequence{430, 1300, 60})

	// 430/26 = 16 bursts, one wait, 60/26 = 2 bursts
	require.Len(t, steps, 16+1+2)
	for i, st := range steps {
		if i == 16 {
			assert.Equal(t, hardware.Step{Kind: hardware.StepWait, Length: 1300 * time.Microsecond}, st)
			continue
		}
		assert.Equal(t, hardware.Step{Kind: hardware.StepCarrier, Period: CarrierPeriod, Width: CarrierWidth}, st)
	}
}

func TestCarrierSteps_ShortMarkHasNoBurst(t *testing.T) {
	steps := CarrierSteps(ir.Sequence{20, 430})
	assert.Equal(t, []hardware.Step{{Kind: hardware.StepWait, Length: 430 * time.Microsecond}}, steps)
}

func TestCarrierPlayer(t *testing.T) {
	rec := &stepRecorder{}
	require.NoError(t, NewCarrierPlayer(rec).Play(ir.Sequence{52, 425}))
	assert.Len(t, rec.steps, 3)
}

func TestTransmitter_AcceptedSendsArePlayedAcrossShutdown(t *testing.T) {
	for round := 0; round < 50; round++ {
		player := &recordingPlayer{}
		tx := New(player, 8, logger.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		go tx.Run(ctx)
		cancel()

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := tx.Send(context.Background(), ir.Sequence{425, 425})
				if err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, ErrStopped)
			}()
		}
		wg.Wait()
		<-tx.Done()

		require.Equal(t, accepted, player.count(), "round %d", round)
		assert.ErrorIs(t, tx.Send(context.Background(), ir.Sequence{425}), ErrStopped)
	}
}
