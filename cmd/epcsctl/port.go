package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

var portListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.GetPortsList()
		if err != nil {
			return fmt.Errorf("failed to list serial ports: %w", err)
		}
		if len(ports) == 0 {
			printInfo("no serial ports found\n")
			return nil
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return nil
	},
}

func init() {
	portCmd := &cobra.Command{
		Use:   "port",
		Short: "Serial port utilities",
	}
	portCmd.AddCommand(portListCmd)
	rootCmd.AddCommand(portCmd)
}
