package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/nigels-app/nigels/internal/auth"
	"github.com/nigels-app/nigels/internal/game"
	"github.com/nigels-app/nigels/internal/server"
	"github.com/nigels-app/nigels/internal/store"
)

// ServerCmd runs the WebSocket game server.
type ServerCmd struct {
	Config   string `short:"c" default:"nigels.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Listen address (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Database string `help:"SQLite database path (overrides config, 'none' disables persistence)"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Database != "" {
		cfg.Storage.DatabasePath = c.Database
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	addr := cfg.ListenAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	logger, closeLog, err := setupLogger(cfg.Server.LogLevel, cfg.Server.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	var st *store.Store
	if cfg.Storage.DatabasePath != "none" {
		st, err = store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()
		logger.Info("Opened game database", "path", cfg.Storage.DatabasePath)
	} else {
		logger.Warn("Persistence disabled, games will not survive a restart")
	}

	var validator auth.Validator
	if cfg.Auth.Enabled {
		ttl := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
		validator = auth.NewTokens([]byte(cfg.Auth.Secret), cfg.Auth.Issuer, ttl)
		logger.Info("Token auth enabled", "issuer", cfg.Auth.Issuer, "ttl", ttl)
	} else {
		validator = auth.NewNoopValidator()
	}

	bus := game.NewEventBus()
	timeout := time.Duration(cfg.Game.TurnTimeoutSeconds) * time.Second
	monitor := server.NewTurnMonitor(quartz.NewReal(), timeout, bus)
	rooms := server.NewRoomManager(cfg.Game.MaxRooms, st, bus, monitor, logger)

	if st != nil {
		restored, err := rooms.Restore(context.Background())
		if err != nil {
			return err
		}
		if restored > 0 {
			logger.Info("Restored unfinished games", "games", restored)
		}
	}

	srv := server.NewServer(addr, rooms, validator, cfg.Game.TurnTimeoutSeconds, logger)
	bus.Subscribe(srv)

	logger.Info("Starting Nigels server",
		"addr", addr,
		"maxRooms", cfg.Game.MaxRooms,
		"turnTimeout", timeout,
		"auth", cfg.Auth.Enabled)

	// Handle graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Info("Shutting down server...")
		_ = srv.Stop()
		if st != nil {
			_ = st.Close()
		}
		os.Exit(0)
	}()

	return srv.Start()
}

// setupLogger builds the root logger. The returned func closes the log file
// when one is configured.
func setupLogger(level, file string) (*log.Logger, func(), error) {
	out := os.Stderr
	closeLog := func() {}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeLog = func() { _ = f.Close() }
	}

	logger := log.New(out)
	switch level {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger, closeLog, nil
}
