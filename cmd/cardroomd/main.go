package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/ledger"
	"github.com/cardroom/holdem/internal/room"
	"github.com/cardroom/holdem/internal/server"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"cardroom.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Listen address (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}

	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	addr := cfg.ListenAddress()
	if CLI.Addr != "" {
		addr = CLI.Addr
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
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

	logger.Info("starting cardroom",
		"addr", addr,
		"stakes", fmt.Sprintf("%d/%d", cfg.Room.SmallBlind, cfg.Room.BigBlind),
		"capacity", cfg.Room.Capacity)

	book := ledger.New(cfg.Bank.Grant)

	wsServer := server.NewServer(addr, logger)

	rooms := room.NewManager(book, wsServer, room.Options{
		Table: game.Config{
			Capacity:      cfg.Room.Capacity,
			SmallBlind:    cfg.Room.SmallBlind,
			BigBlind:      cfg.Room.BigBlind,
			StartingStack: cfg.Room.StartingStack,
			Rate:          cfg.Room.Rate,
		},
		BuyFeePct:  cfg.Room.BuyFeePct,
		SweepAfter: time.Duration(cfg.Room.SweepMinutes) * time.Minute,
	}, logger)
	wsServer.SetRoomManager(rooms)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wsServer.Start()
	})
	g.Go(func() error {
		return rooms.Sweep(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return wsServer.Stop()
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("server failed", "error", err)
		kctx.Exit(1)
	}
}
