package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"controlling_aircon/internal/appliance"
	"controlling_aircon/internal/ir"
	"controlling_aircon/internal/logger"
	"controlling_aircon/internal/models"
	"controlling_aircon/internal/repository"
)

// ApplianceService serialises commands to the appliance controller, queues
// the resulting sequences and records every change.
type ApplianceService struct {
	mu        sync.Mutex
	target    appliance.Target
	sender    Sender
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	log       *logger.Logger
	updatedAt time.Time
	watchers  *broadcaster[models.ApplianceState]
	now       func() time.Time
}

func NewApplianceService(
	target appliance.Target,
	sender Sender,
	stateRepo repository.StateRepo,
	eventRepo repository.EventRepo,
	log *logger.Logger,
) *ApplianceService {
	return &ApplianceService{
		target:    target,
		sender:    sender,
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		log:       log,
		watchers:  newBroadcaster[models.ApplianceState](),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *ApplianceService) PowerOn(ctx context.Context) (models.ApplianceState, error) {
	return s.command(ctx, models.EventPowerOn, "Power on", s.target.PowerOn)
}

func (s *ApplianceService) PowerOff(ctx context.Context) (models.ApplianceState, error) {
	return s.command(ctx, models.EventPowerOff, "Power off", s.target.PowerOff)
}

func (s *ApplianceService) TempUp(ctx context.Context) (models.ApplianceState, error) {
	return s.command(ctx, models.EventTemperature, "Temperature up", s.target.TempUp)
}

func (s *ApplianceService) TempDown(ctx context.Context) (models.ApplianceState, error) {
	return s.command(ctx, models.EventTemperature, "Temperature down", s.target.TempDown)
}

// TempSet at the current temperature sends nothing and reports the state.
func (s *ApplianceService) TempSet(ctx context.Context, temperature int) (models.ApplianceState, error) {
	return s.command(ctx, models.EventTemperature, fmt.Sprintf("Temperature set to %d", temperature),
		func() (ir.Sequence, error) { return s.target.TempSet(temperature) })
}

func (s *ApplianceService) ModeSet(ctx context.Context, mode string) (models.ApplianceState, error) {
	m, err := appliance.ParseMode(mode)
	if err != nil {
		return models.ApplianceState{}, err
	}
	return s.command(ctx, models.EventMode, "Mode changed to "+m.String(),
		func() (ir.Sequence, error) { return s.target.ModeSet(m) })
}

// Apply moves the appliance to the desired status in one transmission:
// mode first, then temperature, then power. The power command wins when
// power changes; otherwise the temperature command, then the mode command
// if the unit is on. Any failure restores the previous state.
func (s *ApplianceService) Apply(ctx context.Context, p StatusParams) (models.ApplianceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.target.Status()
	next := prev
	if p.Mode != nil {
		m, err := appliance.ParseMode(*p.Mode)
		if err != nil {
			return models.ApplianceState{}, err
		}
		next.Mode = m
	}
	if p.Temperature != nil {
		if !s.target.Ladder().Contains(*p.Temperature) {
			return models.ApplianceState{}, fmt.Errorf("%w: %d", appliance.ErrTemperatureRange, *p.Temperature)
		}
		next.Temperature = *p.Temperature
	}
	if p.Powered != nil {
		next.Powered = *p.Powered
	}
	if next == prev {
		return s.snapshotLocked(), nil
	}

	rollback := func(err error) (models.ApplianceState, error) {
		if rerr := s.target.Restore(prev); rerr != nil {
			s.log.Errorw("appliance_restore_failed", "err", rerr)
		}
		return models.ApplianceState{}, err
	}

	var seq ir.Sequence
	if next.Mode != prev.Mode {
		modeSeq, err := s.target.ModeSet(next.Mode)
		if err != nil {
			return rollback(err)
		}
		if prev.Powered {
			seq = modeSeq
		}
	}
	if next.Temperature != prev.Temperature {
		tempSeq, err := s.target.TempSet(next.Temperature)
		if err != nil {
			return rollback(err)
		}
		seq = tempSeq
	}
	if next.Powered != prev.Powered {
		op := s.target.PowerOff
		if next.Powered {
			op = s.target.PowerOn
		}
		powerSeq, err := op()
		if err != nil {
			return rollback(err)
		}
		seq = powerSeq
	}

	desc := fmt.Sprintf("Status set to powered=%t mode=%s temperature=%d", next.Powered, next.Mode, next.Temperature)
	if seq != nil {
		if err := s.sender.Send(ctx, seq); err != nil {
			s.recordFailure(ctx, desc, err)
			return rollback(fmt.Errorf("queue ir command: %w", err))
		}
	}
	return s.commitLocked(ctx, models.EventStatus, desc, len(seq)), nil
}

func (s *ApplianceService) command(
	ctx context.Context,
	eventType, description string,
	op func() (ir.Sequence, error),
) (models.ApplianceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.target.Status()
	seq, err := op()
	if errors.Is(err, appliance.ErrTemperatureSame) {
		return s.snapshotLocked(), nil
	}
	if err != nil {
		return models.ApplianceState{}, err
	}

	if err := s.sender.Send(ctx, seq); err != nil {
		if rerr := s.target.Restore(prev); rerr != nil {
			s.log.Errorw("appliance_restore_failed", "err", rerr)
		}
		s.recordFailure(ctx, description, err)
		return models.ApplianceState{}, fmt.Errorf("queue ir command: %w", err)
	}
	return s.commitLocked(ctx, eventType, description, len(seq)), nil
}

func (s *ApplianceService) commitLocked(ctx context.Context, eventType, description string, pulses int) models.ApplianceState {
	s.updatedAt = s.now()
	st := s.snapshotLocked()

	if err := s.stateRepo.Save(ctx, st); err != nil {
		s.log.Errorw("appliance_state_save_failed", "err", err)
	}
	if err := s.eventRepo.Append(ctx, models.ApplianceEvent{
		OccurredAt:  s.updatedAt,
		Type:        eventType,
		Description: description,
		Metadata: map[string]any{
			"powered":     st.Powered,
			"mode":        st.Mode,
			"temperature": st.Temperature,
			"pulses":      pulses,
		},
	}); err != nil {
		s.log.Errorw("appliance_event_append_failed", "type", eventType, "err", err)
	}

	s.log.Infow("appliance_command",
		"type", eventType,
		"powered", st.Powered,
		"mode", st.Mode,
		"temperature", st.Temperature,
		"pulses", pulses)
	s.watchers.publish(st)
	return st
}

func (s *ApplianceService) recordFailure(ctx context.Context, description string, cause error) {
	s.log.Errorw("appliance_command_failed", "command", description, "err", cause)
	if err := s.eventRepo.Append(ctx, models.ApplianceEvent{
		OccurredAt:  s.now(),
		Type:        models.EventError,
		Description: description + " failed: " + cause.Error(),
	}); err != nil {
		s.log.Errorw("appliance_event_append_failed", "type", models.EventError, "err", err)
	}
}

func (s *ApplianceService) snapshotLocked() models.ApplianceState {
	st := s.target.Status()
	ladder := s.target.Ladder()
	return models.ApplianceState{
		Powered:        st.Powered,
		Mode:           st.Mode.String(),
		Temperature:    st.Temperature,
		MinTemperature: ladder.Min,
		MaxTemperature: ladder.Max,
		UpdatedAt:      s.updatedAt,
	}
}

// GetState returns the state the controller believes the unit is in.
func (s *ApplianceService) GetState(context.Context) (models.ApplianceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// WatchState delivers the state after every committed command.
func (s *ApplianceService) WatchState() (<-chan models.ApplianceState, func()) {
	return s.watchers.subscribe()
}

// Restore adopts the last persisted state, if any. Nothing is transmitted.
func (s *ApplianceService) Restore(ctx context.Context) error {
	stored, ok, err := s.stateRepo.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	mode, err := appliance.ParseMode(stored.Mode)
	if err != nil {
		return fmt.Errorf("stored appliance state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.target.Restore(appliance.State{
		Powered:     stored.Powered,
		Mode:        mode,
		Temperature: stored.Temperature,
	}); err != nil {
		return fmt.Errorf("stored appliance state: %w", err)
	}
	s.updatedAt = stored.UpdatedAt
	s.log.Infow("appliance_state_restored",
		"powered", stored.Powered,
		"mode", stored.Mode,
		"temperature", stored.Temperature)
	return nil
}
