package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "controlling_aircon/docs"
	"controlling_aircon/internal/appliance"
	"controlling_aircon/internal/appliance/sanyo"
	"controlling_aircon/internal/config"
	"controlling_aircon/internal/handlers"
	"controlling_aircon/internal/hardware"
	"controlling_aircon/internal/ir/capture"
	"controlling_aircon/internal/ir/transmit"
	"controlling_aircon/internal/logger"
	"controlling_aircon/internal/repository"
	"controlling_aircon/internal/repository/db"
	"controlling_aircon/internal/server"
	"controlling_aircon/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title                       IR air-conditioner remote
// @version                     1.0
// @description                 Drives a Sanyo air conditioner over infrared and exposes received IR captures.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load("configs", ".env")
	log := logger.Get(cfg.LogLevel)
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer closeDB(sqlDB, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	receiver := newReceiver(cfg.Capture, log)
	if err := receiver.Start(ctx); err != nil {
		log.Fatalw("failed to start ir capture", "err", err)
	}

	tx := transmit.New(newPlayer(cfg.Transmit, log), cfg.Transmit.Queue, log.Named("transmit"))
	go tx.Run(ctx)

	target := sanyo.New(newCodebook(cfg.Sanyo, log))

	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, service.Deps{
		Target:   target,
		Sender:   tx,
		Receiver: receiver,
		Auth: service.AuthConfig{
			SigningKey: cfg.Auth.SigningKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
		Log: log,
	})
	if err := services.EnsureOperator(cfg.Auth.Username, cfg.Auth.Password); err != nil {
		log.Fatalw("failed to provision operator", "username", cfg.Auth.Username, "err", err)
	}
	if cfg.Sanyo.RestoreState {
		if err := services.Appliance.Restore(ctx); err != nil {
			log.Errorw("failed to restore appliance state", "err", err)
		}
	}

	apiHandler := handlers.NewHandler(services, log.Named("http"))

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, receiver, tx, srv, log)
}

// newReceiver builds the capture pipeline on the configured edge source.
// Hardware setup failures are fatal.
func newReceiver(cfg config.CaptureConfig, log *logger.Logger) *capture.Capture {
	var src hardware.EdgeSource
	switch cfg.Source {
	case config.SourceSerial:
		src = hardware.NewSerialEdgeSource(cfg.SerialPort, cfg.SerialBaud, log.Named("serial"))
	default:
		pin, err := hardware.OpenPin(cfg.Pin)
		if err != nil {
			log.Fatalw("failed to open receiver pin", "pin", cfg.Pin, "err", err)
		}
		src = hardware.NewGPIOEdgeSource(pin)
	}
	return capture.New(src, capture.Config{
		WaitTimeout: cfg.WaitTimeout,
		Debounce:    cfg.Debounce,
		MaxPulse:    cfg.MaxPulse,
		Buffer:      cfg.Buffer,
	}, log.Named("capture"))
}

func newPlayer(cfg config.TransmitConfig, log *logger.Logger) transmit.Player {
	pin, err := hardware.OpenPin(cfg.Pin)
	if err != nil {
		log.Fatalw("failed to open transmitter pin", "pin", cfg.Pin, "err", err)
	}
	out := hardware.NewGPIOOutput(pin)
	if err := out.Out(false); err != nil {
		log.Fatalw("failed to release transmitter pin", "pin", cfg.Pin, "err", err)
	}
	if cfg.Mode == config.TransmitDirect {
		return transmit.NewDirectPlayer(out)
	}
	return transmit.NewCarrierPlayer(out)
}

// newCodebook picks the built-in table, a user table, or computed codes.
func newCodebook(cfg config.SanyoConfig, log *logger.Logger) appliance.Codebook {
	switch cfg.CodeTable {
	case config.CodebookProcedural:
		log.Infow("sanyo_codebook", "source", "procedural")
		return sanyo.Procedural{}
	case "":
		table, err := sanyo.DefaultTable()
		if err != nil {
			log.Fatalw("failed to load built-in sanyo table", "err", err)
		}
		log.Infow("sanyo_codebook", "source", "built-in", "modes", table.Modes())
		return table
	default:
		table, err := sanyo.LoadFile(cfg.CodeTable)
		if err != nil {
			log.Fatalw("failed to load sanyo table", "path", cfg.CodeTable, "err", err)
		}
		log.Infow("sanyo_codebook", "source", cfg.CodeTable, "modes", table.Modes())
		return table
	}
}

func closeDB(sqlDB *sql.DB, log *logger.Logger) {
	if err := sqlDB.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, receiver *capture.Capture, tx *transmit.Transmitter, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// finish in-flight requests while the transmitter still accepts commands
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	if err := receiver.Stop(); err != nil {
		log.Errorw("failed to stop ir capture", "err", err)
	}

	// stop background goroutines; queued commands are still played
	cancel()
	<-tx.Done()
}
