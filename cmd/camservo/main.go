package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/luckyfish-tu/camservo/config"
	"github.com/luckyfish-tu/camservo/link"
	"github.com/luckyfish-tu/camservo/ui"
)

const (
	modeCLI    = "cli"
	modeShell  = "shell"
	modeUI     = "ui"
	modeBridge = "bridge"
)

func main() {
	var configPath, mode string
	var useSim bool
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&mode, "mode", modeCLI, "One of cli, shell, ui or bridge")
	flag.BoolVar(&useSim, "sim", false, "Use the simulated firmware instead of a serial port")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if useSim {
		cfg.SerialPort = link.SerialPortSim
	}

	logger := golog.NewLogger("camservo")
	if cfg.Debug {
		logger = golog.NewDevelopmentLogger("camservo")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = run(ctx, mode, cfg, logger)
	if err != nil {
		logger.Errorw("exiting", "error", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, cfg config.Config, logger golog.Logger) error {
	linkCfg := cfg.LinkConfig(logger.Named("link"))

	if mode == modeUI {
		if cfg.SerialPort != "" {
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		mountUI := ui.NewMountUI(link.Open, logger.Named("ui"))
		mountUI.OnConnect = func(l *link.Link) error {
			return applyInitial(l, cfg.Initial)
		}
		mountUI.Run(ctx, linkCfg)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := link.Open(linkCfg)
	if err != nil {
		return err
	}
	defer l.Close()

	if err := applyInitial(l, cfg.Initial); err != nil {
		return err
	}

	switch mode {
	case modeCLI:
		return runCLI(ctx, l)
	case modeShell:
		return runShell(ctx, l, logger)
	case modeBridge:
		return runBridge(ctx, l, cfg.ListenAddr, logger)
	default:
		return errors.Errorf("unknown mode %q", mode)
	}
}

// applyInitial sends the configured settings. Speed goes first so the first move uses it.
func applyInitial(l *link.Link, initial config.Initial) error {
	if initial.SpeedDegPerS != nil {
		if err := l.SetSpeed(*initial.SpeedDegPerS); err != nil {
			return err
		}
	}
	if initial.Inverted != nil {
		if err := l.SetInversion(*initial.Inverted); err != nil {
			return err
		}
	}
	if initial.TargetDeg != nil {
		if err := l.SetTarget(*initial.TargetDeg); err != nil {
			return err
		}
	}
	return nil
}

// runCLI forwards stdin lines as command frames and prints everything the firmware sends
func runCLI(ctx context.Context, l *link.Link) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer cancel()
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := l.SendFrame(line); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}()

	return l.Run(ctx, func(e link.Event) {
		fmt.Println(e.String())
	})
}
