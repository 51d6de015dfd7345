// Package transmit replays pulse sequences on the IR LED from a single
// worker that exclusively owns the output.
package transmit

import (
	"context"
	"errors"
	"sync"

	"controlling_aircon/internal/ir"
	"controlling_aircon/internal/logger"
)

// DefaultQueueSize bounds the number of sequences waiting for the worker.
const DefaultQueueSize = 16

// ErrStopped is returned by Send once the worker has exited.
var ErrStopped = errors.New("transmitter stopped")

// Player realizes one sequence on the output.
type Player interface {
	Play(seq ir.Sequence) error
}

// Transmitter queues sequences for the background worker.
type Transmitter struct {
	player Player
	log    *logger.Logger

	// mu is held shared by Send while enqueuing and exclusively by Run
	// when it stops accepting, so every accepted sequence is in queue
	// before the final drain.
	mu       sync.RWMutex
	closed   bool
	closing  chan struct{}
	queue    chan ir.Sequence
	stopped  chan struct{}
	stopOnce sync.Once
}

func New(player Player, queueSize int, log *logger.Logger) *Transmitter {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Transmitter{
		player:  player,
		log:     log,
		queue:   make(chan ir.Sequence, queueSize),
		closing: make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Send enqueues a copy of seq and returns without waiting for playback.
// A nil error means the sequence will be played, even during shutdown.
func (t *Transmitter) Send(ctx context.Context, seq ir.Sequence) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return ErrStopped
	}
	select {
	case <-t.closing:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	case t.queue <- seq.Clone():
		return nil
	}
}

// Run plays queued sequences one at a time until ctx is canceled, then
// refuses new sends and plays what was already accepted.
// Playback errors are logged and the worker keeps going.
func (t *Transmitter) Run(ctx context.Context) {
	defer t.stop()

	for {
		select {
		case <-ctx.Done():
			t.refuseSends()
			t.drain()
			return
		case seq := <-t.queue:
			t.play(seq)
		}
	}
}

func (t *Transmitter) refuseSends() {
	close(t.closing)
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

func (t *Transmitter) drain() {
	if n := len(t.queue); n > 0 {
		t.log.Infow("ir_transmit_draining", "pending", n)
	}
	for {
		select {
		case seq := <-t.queue:
			t.play(seq)
		default:
			return
		}
	}
}

func (t *Transmitter) play(seq ir.Sequence) {
	if err := t.player.Play(seq); err != nil {
		t.log.Errorw("ir_transmit_failed", "pulses", len(seq), "err", err)
		return
	}
	t.log.Debugw("ir_transmit_done", "pulses", len(seq))
}

func (t *Transmitter) stop() {
	t.stopOnce.Do(func() {
		close(t.stopped)
		t.log.Infow("ir_transmitter_stopped")
	})
}

// Done is closed when the worker has exited.
func (t *Transmitter) Done() <-chan struct{} {
	return t.stopped
}
