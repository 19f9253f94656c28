package ipc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func socketPath(t *testing.T) string {
	// unix socket paths are limited to ~104 bytes; t.TempDir can exceed it
	dir, err := os.MkdirTemp("", "vox")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "ctl.sock")
}

func TestSendCommand(t *testing.T) {
	path := socketPath(t)
	got := make(chan string, 1)

	ln, err := StartServer(path, func(msg ControlMessage) ControlReply {
		got <- msg.Cmd
		return ControlReply{OK: true, Status: "listening"}
	})
	require.NoError(t, err)
	defer ln.Close()

	reply, err := SendCommand(path, CmdTrigger)
	require.NoError(t, err)

	assert.Equal(t, CmdTrigger, <-got)
	assert.Equal(t, ControlReply{OK: true, Status: "listening"}, reply)
}

func TestSendCommandNoDaemon(t *testing.T) {
	_, err := SendCommand(socketPath(t), CmdStatus)
	assert.Error(t, err)
}
