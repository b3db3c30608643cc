package main

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge <listen-addr>",
	Short: "Relay raw bytes between a TCP listener and the configured serial port",
	Long: `bridge is a passthrough: every byte from a TCP client is
written to the serial port and every byte from the serial port is
written back to the client. It does not speak the command protocol;
it exists so a terminal program on another host can talk to hardware
attached to this one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := &serial.Mode{
			BaudRate: cfg.BaudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
		port, err := serial.Open(cfg.Port, mode)
		if err != nil {
			return fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
		}
		defer port.Close()

		ln, err := net.Listen("tcp", args[0])
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", args[0], err)
		}
		defer ln.Close()
		printInfo("Bridging %s to %s\n", args[0], cfg.Port)

		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			go relay(conn, port)
		}
	},
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
}

func relay(conn net.Conn, port serial.Port) {
	defer conn.Close()
	printInfo("client connected: %s\n", conn.RemoteAddr())

	done := make(chan struct{}, 2)
	go func() {
		io.Copy(port, conn)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(conn, port)
		done <- struct{}{}
	}()
	<-done

	// Give the other direction a moment to flush before the next client.
	time.Sleep(50 * time.Millisecond)
}
