// Package ipc is the local control channel between vox-ctl and
// vox-daemon: one JSON message per unix socket connection.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"os"
)

const SocketPath = "/tmp/vox.sock"

const (
	CmdTrigger = "trigger"
	CmdStatus  = "status"
	CmdQuit    = "quit"
)

type ControlMessage struct {
	Cmd string `json:"cmd"`
}

type ControlReply struct {
	OK     bool   `json:"ok"`
	Status string `json:"status,omitempty"`
}

type Handler func(ControlMessage) ControlReply

// StartServer listens on path and serves each connection in its own
// goroutine. Close the returned listener to stop.
func StartServer(path string, handler Handler) (net.Listener, error) {
	if path == "" {
		path = SocketPath
	}
	_ = os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if err != nil {
				log.Warn("Failed to accept control connection", "err", err)
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return ln, nil
}

func handleConn(conn net.Conn, handler Handler) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		log.Debug("Bad control message", "err", err)
		return
	}

	reply := handler(msg)
	if err := json.NewEncoder(conn).Encode(reply); err != nil {
		log.Debug("Failed to reply", "cmd", msg.Cmd, "err", err)
	}
}

func SendCommand(path, cmd string) (ControlReply, error) {
	if path == "" {
		path = SocketPath
	}

	conn, err := net.Dial("unix", path)
	if err != nil {
		return ControlReply{}, err
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd}); err != nil {
		return ControlReply{}, fmt.Errorf("send: %w", err)
	}

	var reply ControlReply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return ControlReply{}, fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}
