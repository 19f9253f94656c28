package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"weathervox/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.SocketPath, "Daemon control socket")
	cli.Parse()

	cmd := ipc.CmdTrigger
	if cli.NArg() > 0 {
		cmd = cli.Arg(0)
	}

	reply, err := ipc.SendCommand(*socket, cmd)
	if err != nil {
		fmt.Println("vox-daemon not running:", err)
		os.Exit(1)
	}

	fmt.Println(reply.Status)
	if !reply.OK {
		os.Exit(1)
	}
}
