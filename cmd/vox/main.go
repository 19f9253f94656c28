package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/spf13/pflag"

	"weathervox/internal/app"
	"weathervox/internal/config"
	"weathervox/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load("vox", os.Args[1:])
	if errors.Is(err, cli.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logging.Setup(os.Stdout, cfg.LogLevel)
	log.Info("Booting up", "input", cfg.Input, "stt", cfg.STT, "tts", cfg.TTS)

	a, err := app.New(cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Error("Failed to boot", "err", err)
		return 1
	}
	defer a.Close()

	log.Info("Boot up - successful")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = a.NewSession().Run(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, io.EOF):
		log.Info("No more input")
		return 0
	case errors.Is(err, context.Canceled):
		log.Info("Interrupted")
		return 130
	default:
		log.Error("Conversation failed", "err", err)
		return 1
	}
}
