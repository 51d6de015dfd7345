package hardware

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"

	"controlling_aircon/internal/logger"
)

// SerialEdgeSource reads edges from a microcontroller-attached receiver.
// The device prints one line per edge holding its own microsecond clock,
// e.g. "1048576". Timestamps are re-based onto the host clock.
type SerialEdgeSource struct {
	open func() (io.ReadCloser, error)
	log  *logger.Logger

	mu      sync.Mutex
	rc      io.ReadCloser
	stopped chan struct{}
}

// NewSerialEdgeSource opens the named port on Watch.
func NewSerialEdgeSource(name string, baud int, log *logger.Logger) *SerialEdgeSource {
	cfg := &serial.Config{Name: name, Baud: baud}
	return NewReaderEdgeSource(func() (io.ReadCloser, error) {
		p, err := serial.OpenPort(cfg)
		if err != nil {
			return nil, fmt.Errorf("open serial port %s: %w", name, err)
		}
		return p, nil
	}, log)
}

// NewReaderEdgeSource reads edge lines from whatever open returns.
func NewReaderEdgeSource(open func() (io.ReadCloser, error), log *logger.Logger) *SerialEdgeSource {
	return &SerialEdgeSource{open: open, log: log}
}

func (s *SerialEdgeSource) Watch(fn func(at time.Time)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rc != nil {
		return ErrAlreadyWatching
	}
	rc, err := s.open()
	if err != nil {
		return err
	}
	stopped := make(chan struct{})
	s.rc, s.stopped = rc, stopped

	go func() {
		defer close(stopped)
		s.scan(rc, fn)
	}()
	return nil
}

func (s *SerialEdgeSource) scan(r io.Reader, fn func(at time.Time)) {
	var (
		base    time.Time
		started bool
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		us, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			s.log.Debugw("serial_edge_line_skipped", "line", line, "err", err)
			continue
		}
		offset := time.Duration(us) * time.Microsecond
		if !started {
			base = time.Now().Add(-offset)
			started = true
		}
		fn(base.Add(offset))
	}
	if err := scanner.Err(); err != nil {
		s.log.Infow("serial_edge_reader_closed", "err", err)
	}
}

// Unwatch closes the port and waits for the reader to finish.
func (s *SerialEdgeSource) Unwatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rc == nil {
		return nil
	}
	err := s.rc.Close()
	<-s.stopped
	s.rc, s.stopped = nil, nil
	if err != nil {
		return fmt.Errorf("close serial edge source: %w", err)
	}
	return nil
}
