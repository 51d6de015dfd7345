package hardware

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"
)

// edgePollTimeout bounds how long the edge goroutine blocks before it checks
// for Unwatch.
const edgePollTimeout = 50 * time.Millisecond

// OpenPin initialises the host drivers and looks up a pin by name
// (e.g. "GPIO4").
func OpenPin(name string) (gpio.PinIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize gpio host: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
	}
	return p, nil
}

// GPIOEdgeSource turns periph edge detection into timestamp callbacks.
type GPIOEdgeSource struct {
	pin gpio.PinIn

	mu      sync.Mutex
	done    chan struct{}
	stopped chan struct{}
}

func NewGPIOEdgeSource(pin gpio.PinIn) *GPIOEdgeSource {
	return &GPIOEdgeSource{pin: pin}
}

// Watch enables both-edge detection and starts delivering timestamps.
func (s *GPIOEdgeSource) Watch(fn func(at time.Time)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return ErrAlreadyWatching
	}
	if err := s.pin.In(gpio.Float, gpio.BothEdges); err != nil {
		return fmt.Errorf("enable edge detection on %s: %w", s.pin, err)
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	s.done, s.stopped = done, stopped

	go func() {
		defer close(stopped)
		for {
			select {
			case <-done:
				return
			default:
			}
			if s.pin.WaitForEdge(edgePollTimeout) {
				fn(time.Now())
			}
		}
	}()
	return nil
}

// Unwatch stops delivery and disables edge detection on the pin.
func (s *GPIOEdgeSource) Unwatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		return nil
	}
	close(s.done)
	<-s.stopped
	s.done, s.stopped = nil, nil

	if err := s.pin.In(gpio.Float, gpio.NoEdge); err != nil {
		return fmt.Errorf("disable edge detection on %s: %w", s.pin, err)
	}
	return nil
}

// GPIOOutput drives an IR LED pin either by level or by carrier programs.
type GPIOOutput struct {
	pin   gpio.PinOut
	sleep func(time.Duration)
}

func NewGPIOOutput(pin gpio.PinOut) *GPIOOutput {
	return &GPIOOutput{pin: pin, sleep: time.Sleep}
}

func (o *GPIOOutput) Out(high bool) error {
	return o.pin.Out(gpio.Level(high))
}

// PlaySteps runs consecutive carrier bursts as one PWM window and waits with
// the pin held low. The pin is left low afterwards.
func (o *GPIOOutput) PlaySteps(steps []Step) error {
	for i := 0; i < len(steps); {
		st := steps[i]
		switch st.Kind {
		case StepCarrier:
			var total time.Duration
			j := i
			for j < len(steps) && steps[j].Kind == StepCarrier {
				total += steps[j].Period
				j++
			}
			if err := o.pin.PWM(carrierDuty(st), carrierFrequency(st)); err != nil {
				_ = o.pin.Out(gpio.Low)
				return fmt.Errorf("start carrier on %s: %w", o.pin, err)
			}
			o.sleep(total)
			i = j
		case StepWait:
			if err := o.pin.Out(gpio.Low); err != nil {
				return fmt.Errorf("hold %s low: %w", o.pin, err)
			}
			o.sleep(st.Length)
			i++
		default:
			return fmt.Errorf("unknown step kind %d", st.Kind)
		}
	}
	return o.pin.Out(gpio.Low)
}

func carrierFrequency(st Step) physic.Frequency {
	if st.Period <= 0 {
		return 0
	}
	return physic.Frequency(time.Second/st.Period) * physic.Hertz
}

func carrierDuty(st Step) gpio.Duty {
	if st.Period <= 0 {
		return 0
	}
	return gpio.Duty(int64(gpio.DutyMax) * int64(st.Width) / int64(st.Period))
}
