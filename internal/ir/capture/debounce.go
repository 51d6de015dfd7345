package capture

import "time"

// debouncer sums consecutive short durations until the running total
// exceeds the threshold, absorbing electrical bounce on the receiver.
type debouncer struct {
	threshold time.Duration
	acc       time.Duration
	pending   bool
}

// add feeds one raw duration and returns a pulse when one is complete.
func (d *debouncer) add(dur time.Duration) (time.Duration, bool) {
	if d.pending {
		sum := d.acc + dur
		if sum > d.threshold {
			d.reset()
			return sum, true
		}
		d.acc = sum
		return 0, false
	}
	if dur > d.threshold {
		return dur, true
	}
	d.acc, d.pending = dur, true
	return 0, false
}

// flush releases a pending partial pulse, used before a timeout.
func (d *debouncer) flush() (time.Duration, bool) {
	if !d.pending {
		return 0, false
	}
	v := d.acc
	d.reset()
	return v, true
}

func (d *debouncer) reset() {
	d.acc, d.pending = 0, false
}
