package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	cli "github.com/spf13/pflag"

	"weathervox/internal/app"
	"weathervox/internal/config"
	"weathervox/internal/dialog"
	"weathervox/internal/ipc"
	"weathervox/internal/logging"
)

func main() {
	os.Exit(run())
}

// daemon runs at most one conversation at a time. The conversation must
// be finished before the app's native resources are released.
type daemon struct {
	newSession func() *dialog.Session

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	busy    bool
	closing bool

	quitOnce sync.Once
	quit     chan struct{}
}

func newDaemon(parent context.Context, newSession func() *dialog.Session) *daemon {
	ctx, cancel := context.WithCancel(parent)
	return &daemon{
		newSession: newSession,
		ctx:        ctx,
		cancel:     cancel,
		quit:       make(chan struct{}),
	}
}

func run() int {
	cfg, err := config.Load("vox-daemon", os.Args[1:])
	if errors.Is(err, cli.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if cfg.Input == config.InputKeyboard {
		fmt.Fprintln(os.Stderr, "vox-daemon cannot read from the keyboard")
		return 2
	}

	logging.Setup(os.Stdout, cfg.LogLevel)
	log.Info("Booting up")

	a, err := app.New(cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Error("Failed to boot", "err", err)
		return 1
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := newDaemon(ctx, a.NewSession)

	ln, err := ipc.StartServer(cfg.Socket, d.handle)
	if err != nil {
		log.Error("Failed ipc server", "err", err)
		return 1
	}
	defer ln.Close()

	log.Info("Boot up - successful", "socket", cfg.Socket)

	select {
	case <-ctx.Done():
	case <-d.quit:
	}

	log.Info("Shutting down")
	d.shutdown()
	return 0
}

func (d *daemon) handle(msg ipc.ControlMessage) ipc.ControlReply {
	switch msg.Cmd {
	case ipc.CmdTrigger:
		if status := d.start(); status != "" {
			log.Warn("Trigger ignored", "status", status)
			return ipc.ControlReply{Status: status}
		}
		go d.converse()
		return ipc.ControlReply{OK: true, Status: "listening"}
	case ipc.CmdStatus:
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.busy {
			return ipc.ControlReply{OK: true, Status: "busy"}
		}
		return ipc.ControlReply{OK: true, Status: "idle"}
	case ipc.CmdQuit:
		d.quitOnce.Do(func() {
			d.cancel()
			close(d.quit)
		})
		return ipc.ControlReply{OK: true, Status: "bye"}
	default:
		log.Warn("Unknown command", "cmd", msg.Cmd)
		return ipc.ControlReply{Status: "unknown command"}
	}
}

// start claims the conversation slot. It returns the reason when the
// slot cannot be taken.
func (d *daemon) start() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.closing:
		return "shutting down"
	case d.busy:
		return "busy"
	}
	d.busy = true
	d.wg.Add(1)
	return ""
}

// shutdown cancels a running conversation and waits for it to return.
func (d *daemon) shutdown() {
	d.mu.Lock()
	d.closing = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}

func (d *daemon) converse() {
	defer d.wg.Done()
	defer func() {
		d.mu.Lock()
		d.busy = false
		d.mu.Unlock()
	}()

	log.Info("Starting conversation")

	err := d.newSession().Run(d.ctx)
	switch {
	case err == nil:
		log.Info("Conversation finished")
	case errors.Is(err, io.EOF):
		log.Info("No more input")
	case errors.Is(err, context.Canceled):
	default:
		log.Error("Conversation failed", "err", err)
	}
}
