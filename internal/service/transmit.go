package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"controlling_aircon/internal/ir"
	"controlling_aircon/internal/ir/aeha"
	"controlling_aircon/internal/logger"
	"controlling_aircon/internal/models"
	"controlling_aircon/internal/repository"
)

// maxRawPulse bounds a single raw pulse in microseconds.
const maxRawPulse = 100_000

var (
	ErrInvalidFrame  = errors.New("invalid frame")
	ErrInvalidPulses = errors.New("invalid pulse sequence")
)

// TransmitService sends frames or raw pulses that are not appliance commands.
type TransmitService struct {
	sender    Sender
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewTransmitService(sender Sender, eventRepo repository.EventRepo, log *logger.Logger) *TransmitService {
	return &TransmitService{sender: sender, eventRepo: eventRepo, log: log}
}

// SendFrames encodes each hex frame ("40 00 14", "0x40, 0x00" or "400014")
// as one AEHA transmission and returns the pulse count.
func (s *TransmitService) SendFrames(ctx context.Context, frames []string) (int, error) {
	if len(frames) == 0 {
		return 0, fmt.Errorf("%w: no frames", ErrInvalidFrame)
	}
	parsed := make([]ir.Frame, len(frames))
	for i, raw := range frames {
		f, err := parseHexFrame(raw)
		if err != nil {
			return 0, fmt.Errorf("frame %d: %w", i, err)
		}
		parsed[i] = f
	}

	seq, err := aeha.EncodeFrames(parsed...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	if err := s.sender.Send(ctx, seq); err != nil {
		return 0, fmt.Errorf("queue ir frames: %w", err)
	}

	desc := make([]string, len(parsed))
	for i, f := range parsed {
		desc[i] = f.String()
	}
	s.record(ctx, "Sent frames", map[string]any{"frames": desc, "pulses": len(seq)})
	return len(seq), nil
}

// SendPulses replays a raw mark/space list, which must start and end with a
// mark.
func (s *TransmitService) SendPulses(ctx context.Context, pulses []uint32) error {
	if len(pulses) == 0 || len(pulses)%2 == 0 {
		return fmt.Errorf("%w: need an odd number of pulses, got %d", ErrInvalidPulses, len(pulses))
	}
	for i, p := range pulses {
		if p == 0 || p > maxRawPulse {
			return fmt.Errorf("%w: pulse %d is %dµs", ErrInvalidPulses, i, p)
		}
	}
	if err := s.sender.Send(ctx, ir.SequenceFromMicros(pulses)); err != nil {
		return fmt.Errorf("queue ir pulses: %w", err)
	}
	s.record(ctx, "Sent raw pulses", map[string]any{"pulses": len(pulses)})
	return nil
}

func (s *TransmitService) record(ctx context.Context, description string, meta map[string]any) {
	s.log.Infow("ir_send_queued", "description", description, "meta", meta)
	if err := s.eventRepo.Append(ctx, models.ApplianceEvent{
		Type:        models.EventSend,
		Description: description,
		Metadata:    meta,
	}); err != nil {
		s.log.Errorw("send_event_append_failed", "err", err)
	}
}

func parseHexFrame(raw string) (ir.Frame, error) {
	cleaned := strings.NewReplacer("0x", "", "0X", "", ",", "", " ", "", "\t", "").Replace(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty frame", ErrInvalidFrame)
	}
	b, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidFrame, raw, err)
	}
	return ir.Frame(b), nil
}
