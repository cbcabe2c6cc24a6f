// Command lip-monitor connects to a Lutron bridge and monitors the
// integration protocol.
//
// It maintains a resilient LIP session, prints incoming events, and
// optionally records the full protocol trace to a capture file.
//
// Usage:
//
//	lip-monitor [flags]
//
// Flags:
//
//	-host string        Bridge address (discovered via mDNS when empty)
//	-port int           Bridge telnet port (default 23)
//	-config string      Configuration file path (YAML)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-capture string     Write the protocol trace to this file (CBOR)
//	-interactive        Enable interactive command mode
//
// Examples:
//
//	# Discover a bridge and print its events
//	lip-monitor
//
//	# Connect to a known bridge with protocol capture
//	lip-monitor -host 192.168.1.50 -capture bridge.llog
//
//	# Interactive mode for sending queries and actions
//	lip-monitor -host 192.168.1.50 -interactive
//
// Interactive Commands:
//
//	query <mode> <id> <action>        - Send a state query
//	action <mode> <id> <args...>      - Send an action command
//	press <id> <button>               - Press a keypad button
//	release <id> <button>             - Release a keypad button
//	watch on|off                      - Toggle event printing
//	status                            - Show connection status
//	discover                          - Browse for bridges via mDNS
//	quit                              - Exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lip-protocol/lip-go/cmd/lip-monitor/interactive"
	"github.com/lip-protocol/lip-go/pkg/discovery"
	"github.com/lip-protocol/lip-go/pkg/lip"
	protolog "github.com/lip-protocol/lip-go/pkg/log"
	"github.com/lip-protocol/lip-go/pkg/wire"
)

func main() {
	var (
		flagHost        = flag.String("host", "", "Bridge address (discovered via mDNS when empty)")
		flagPort        = flag.Int("port", wire.DefaultPort, "Bridge telnet port")
		flagConfig      = flag.String("config", "", "Configuration file path (YAML)")
		flagLogLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		flagCapture     = flag.String("capture", "", "Write the protocol trace to this file")
		flagInteractive = flag.Bool("interactive", false, "Enable interactive command mode")
	)
	flag.Parse()

	logger := newLogger(*flagLogLevel)

	fileCfg := FileConfig{}
	if *flagConfig != "" {
		loaded, err := LoadConfig(*flagConfig)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *flagConfig).Msg("failed to load config")
		}
		fileCfg = loaded
	}

	cfg, err := fileCfg.ClientConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if *flagHost != "" {
		cfg.Host = *flagHost
	}
	if cfg.Port == 0 || *flagPort != wire.DefaultPort {
		cfg.Port = *flagPort
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Host == "" {
		host, err := discoverBridge(ctx, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("bridge discovery failed")
		}
		cfg.Host = host
	}

	capturePath := *flagCapture
	if capturePath == "" {
		capturePath = fileCfg.Capture
	}
	if capturePath != "" {
		fileLogger, err := protolog.NewFileLogger(capturePath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", capturePath).Msg("failed to open capture file")
		}
		defer fileLogger.Close()
		cfg.Capture = protolog.NewMultiLogger(
			fileLogger,
			protolog.NewZerologAdapter(logger),
		)
		logger.Info().Str("path", capturePath).Msg("protocol capture enabled")
	} else {
		cfg.Capture = protolog.NewZerologAdapter(logger)
	}
	cfg.Logger = &logger

	client := lip.NewClient(cfg)

	logger.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("connecting")
	if err := client.Connect(ctx); err != nil {
		logger.Fatal().Err(err).Msg("connect failed")
	}
	defer client.Stop()
	logger.Info().Msg("connected")

	if *flagInteractive {
		monitor, err := interactive.New(client, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to start interactive mode")
		}
		monitor.Run(ctx, cancel)
		return
	}

	client.Subscribe(func(msg wire.Message) {
		fmt.Printf("%s %d action %d value %g\n",
			msg.Mode, msg.IntegrationID, msg.ActionNumber, msg.Value)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
	}).Level(lvl).With().Timestamp().Logger()
}

func discoverBridge(ctx context.Context, logger zerolog.Logger) (string, error) {
	logger.Info().Msg("no host configured, browsing for bridges")

	browser, err := discovery.NewBrowser(discovery.DefaultBrowserConfig())
	if err != nil {
		return "", err
	}
	bridge, err := browser.FindFirst(ctx)
	if err != nil {
		return "", err
	}
	if len(bridge.Addresses) == 0 {
		return bridge.Host, nil
	}

	logger.Info().
		Str("instance", bridge.InstanceName).
		Str("system", bridge.SystemType).
		Strs("addresses", bridge.Addresses).
		Msg("found bridge")
	return bridge.Addresses[0], nil
}
