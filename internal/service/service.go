package service

import (
	"context"

	"controlling_aircon/internal/appliance"
	"controlling_aircon/internal/ir"
	"controlling_aircon/internal/logger"
	"controlling_aircon/internal/models"
	"controlling_aircon/internal/repository"
)

type Authorization interface {
	EnsureOperator(username, password string) error
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Appliance exposes remote-control commands. Each returns the state after
// the command was queued for transmission.
type Appliance interface {
	PowerOn(ctx context.Context) (models.ApplianceState, error)
	PowerOff(ctx context.Context) (models.ApplianceState, error)
	TempUp(ctx context.Context) (models.ApplianceState, error)
	TempDown(ctx context.Context) (models.ApplianceState, error)
	TempSet(ctx context.Context, temperature int) (models.ApplianceState, error)
	ModeSet(ctx context.Context, mode string) (models.ApplianceState, error)
	Apply(ctx context.Context, p StatusParams) (models.ApplianceState, error)
	Restore(ctx context.Context) error
}

// Monitoring exposes the believed appliance state.
type Monitoring interface {
	GetState(ctx context.Context) (models.ApplianceState, error)
	WatchState() (<-chan models.ApplianceState, func())
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ApplianceEvent, error)
}

// Capture exposes received sequences together with their decoding.
type Capture interface {
	Latest() (models.CaptureView, bool)
	History() []models.CaptureView
	ClearHistory()
	WatchCaptures() (<-chan models.CaptureView, func())
}

// Transmit sends arbitrary frames or raw pulses.
type Transmit interface {
	SendFrames(ctx context.Context, frames []string) (int, error)
	SendPulses(ctx context.Context, pulses []uint32) error
}

// Sender queues a sequence for the IR transmitter.
type Sender interface {
	Send(ctx context.Context, seq ir.Sequence) error
}

// Receiver is the capture pipeline feeding the Capture service.
type Receiver interface {
	LatestIndexed() (ir.Sequence, int)
	History() []ir.Sequence
	ClearHistory()
	Subscribe() (<-chan ir.Sequence, func())
}

type Service struct {
	Appliance
	Monitoring
	EventLog
	Capture
	Transmit
	Authorization
}

// Deps are the hardware-facing collaborators built in main.
type Deps struct {
	Target   appliance.Target
	Sender   Sender
	Receiver Receiver
	Auth     AuthConfig
	Log      *logger.Logger
}

// NewService wires the repository layer and hardware pipeline into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	appl := NewApplianceService(deps.Target, deps.Sender, repos.StateRepo, repos.EventRepo, log.Named("appliance"))
	return &Service{
		Appliance:     appl,
		Monitoring:    appl,
		EventLog:      NewEventLogService(repos.EventRepo),
		Capture:       NewCaptureService(deps.Receiver),
		Transmit:      NewTransmitService(deps.Sender, repos.EventRepo, log.Named("transmit")),
		Authorization: NewAuthService(repos.Operators, deps.Auth),
	}
}
