package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/moonhole/holdemlite/internal/server"
)

var CLI struct {
	Config   string `short:"c" default:"holdem-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Bind address as host:port (overrides config)"`
	LogLevel string `short:"l" help:"Log level: debug, info, warn, error (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("holdem-server"),
		kong.Description("WebSocket no-limit hold'em server"))

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		kctx.Exit(1)
	}

	if CLI.Addr != "" {
		host, portStr, err := net.SplitHostPort(CLI.Addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --addr %q: %v\n", CLI.Addr, err)
			kctx.Exit(1)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --addr port %q\n", portStr)
			kctx.Exit(1)
		}
		cfg.Server.Address = host
		cfg.Server.Port = port
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("starting holdem server",
		"addr", cfg.ListenAddress(),
		"tables", len(cfg.Tables),
		"npcs", len(cfg.NPCs))

	srv := server.New(cfg, quartz.NewReal(), logger)
	if err := srv.Setup(); err != nil {
		logger.Error("setup failed", "err", err)
		kctx.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server failed", "err", err)
		kctx.Exit(1)
	}
	logger.Info("shutdown complete")
}
