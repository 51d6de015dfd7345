// Package capture turns receiver edge interrupts into completed pulse
// sequences.
//
// The edge callback only forwards timestamps. A single goroutine owns the
// last timestamp, the debounce accumulator, the sequence being built and the
// silence timer, so a pending pulse is always flushed before the timeout that
// closes its sequence.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"controlling_aircon/internal/hardware"
	"controlling_aircon/internal/ir"
	"controlling_aircon/internal/logger"
)

// Config tunes segmentation. Zero fields fall back to DefaultConfig.
type Config struct {
	// WaitTimeout of silence closes the current sequence.
	WaitTimeout time.Duration
	// Debounce is the shortest duration accepted as a pulse on its own.
	Debounce time.Duration
	// MaxPulse is the longest pulse kept; longer ones are setup noise.
	MaxPulse time.Duration
	// Buffer is the capacity of the edge channel.
	Buffer int
}

func DefaultConfig() Config {
	return Config{
		WaitTimeout: 100 * time.Millisecond,
		Debounce:    100 * time.Microsecond,
		MaxPulse:    10 * time.Millisecond,
		Buffer:      4096,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = d.WaitTimeout
	}
	if c.Debounce <= 0 {
		c.Debounce = d.Debounce
	}
	if c.MaxPulse <= 0 {
		c.MaxPulse = d.MaxPulse
	}
	if c.Buffer <= 0 {
		c.Buffer = d.Buffer
	}
	return c
}

var ErrAlreadyStarted = errors.New("capture already started")

// Capture publishes every completed sequence to subscribers and keeps an
// append-only history for the lifetime of the process.
type Capture struct {
	src hardware.EdgeSource
	cfg Config
	log *logger.Logger

	runMu   sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	edges   chan time.Time
	dropped atomic.Int64

	// histMu is taken before subMu.
	histMu  sync.RWMutex
	history []ir.Sequence

	subMu     sync.Mutex
	latest    ir.Sequence
	latestIdx int
	subs      map[int]chan ir.Sequence
	nextSub   int
}

func New(src hardware.EdgeSource, cfg Config, log *logger.Logger) *Capture {
	return &Capture{
		src:       src,
		cfg:       cfg.withDefaults(),
		log:       log,
		latestIdx: -1,
		subs:      make(map[int]chan ir.Sequence),
	}
}

// Start registers the edge callback and launches the capture loop. A
// registration failure is returned as is; the capture is unusable then.
func (c *Capture) Start(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	if c.cancel != nil {
		return ErrAlreadyStarted
	}

	edges := make(chan time.Time, c.cfg.Buffer)
	err := c.src.Watch(func(at time.Time) {
		select {
		case edges <- at:
		default:
			c.dropped.Add(1)
		}
	})
	if err != nil {
		return fmt.Errorf("register ir edge callback: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.edges = edges
	go c.run(ctx, edges)

	c.log.Infow("ir_capture_started",
		"wait_timeout", c.cfg.WaitTimeout,
		"debounce", c.cfg.Debounce,
		"max_pulse", c.cfg.MaxPulse)
	return nil
}

// Stop deregisters the edge callback, stops the loop and its timer. Once
// the callback is gone the edge channel is closed and the loop ends on its
// own; otherwise the loop is canceled.
func (c *Capture) Stop() error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	if c.cancel == nil {
		return nil
	}

	var errs []error
	if err := c.src.Unwatch(); err != nil {
		errs = append(errs, fmt.Errorf("deregister ir edge callback: %w", err))
		c.cancel()
	} else {
		close(c.edges)
	}
	<-c.done
	c.cancel()
	c.cancel, c.done, c.edges = nil, nil, nil

	c.log.Infow("ir_capture_stopped")
	return errors.Join(errs...)
}

func (c *Capture) run(ctx context.Context, edges <-chan time.Time) {
	defer close(c.done)

	timer := time.NewTimer(c.cfg.WaitTimeout)
	timer.Stop()
	defer timer.Stop()

	var (
		timeout <-chan time.Time
		last    time.Time
		seq     ir.Sequence
		bounce  = debouncer{threshold: c.cfg.Debounce}
	)

	for {
		select {
		case <-ctx.Done():
			return

		case at, ok := <-edges:
			if !ok {
				c.log.Infow("ir_edge_channel_closed")
				return
			}
			timer.Reset(c.cfg.WaitTimeout)
			timeout = timer.C

			if last.IsZero() {
				last = at
				continue
			}
			d := at.Sub(last)
			last = at
			if d <= 0 {
				continue
			}
			if p, ok := bounce.add(d); ok {
				seq = c.appendPulse(seq, p)
			}

		case <-timeout:
			timeout = nil
			if p, ok := bounce.flush(); ok {
				seq = c.appendPulse(seq, p)
			}
			if len(seq) > 0 {
				c.publish(seq)
				seq = nil
			}
		}
	}
}

func (c *Capture) appendPulse(seq ir.Sequence, d time.Duration) ir.Sequence {
	p := ir.Normalize(d)
	if p.Duration() > c.cfg.MaxPulse {
		c.log.Debugw("ir_pulse_skipped", "pulse_us", uint32(p), "reason", "longer than max pulse")
		return seq
	}
	return append(seq, p)
}

func (c *Capture) publish(seq ir.Sequence) {
	if n := c.dropped.Swap(0); n > 0 {
		c.log.Warnw("ir_edges_dropped", "count", n)
	}

	c.histMu.Lock()
	c.history = append(c.history, seq)
	total := len(c.history)

	c.subMu.Lock()
	c.latest, c.latestIdx = seq, total-1
	for _, ch := range c.subs {
		// latest wins: replace whatever a slow subscriber has not read yet
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- seq.Clone():
		default:
		}
	}
	c.subMu.Unlock()
	c.histMu.Unlock()

	c.log.Debugw("ir_sequence_finished", "pulses", len(seq), "history", total)
}

// Latest returns a copy of the most recent completed sequence, or nil.
// It survives ClearHistory.
func (c *Capture) Latest() ir.Sequence {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return c.latest.Clone()
}

// LatestIndexed is Latest plus its position in History, or -1 once the
// history holding it was cleared.
func (c *Capture) LatestIndexed() (ir.Sequence, int) {
	c.histMu.RLock()
	defer c.histMu.RUnlock()
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return c.latest.Clone(), c.latestIdx
}

// Subscribe returns a channel receiving sequences completed from now on.
// Only the newest unread sequence is kept for a slow reader.
func (c *Capture) Subscribe() (<-chan ir.Sequence, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan ir.Sequence, 1)
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			close(ch)
			c.subMu.Unlock()
		})
	}
}

// History returns copies of all sequences captured so far, oldest first.
func (c *Capture) History() []ir.Sequence {
	c.histMu.RLock()
	defer c.histMu.RUnlock()
	out := make([]ir.Sequence, len(c.history))
	for i, seq := range c.history {
		out[i] = seq.Clone()
	}
	return out
}

// ClearHistory forgets every captured sequence.
func (c *Capture) ClearHistory() {
	c.histMu.Lock()
	defer c.histMu.Unlock()
	c.history = nil

	c.subMu.Lock()
	c.latestIdx = -1
	c.subMu.Unlock()
}
