package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightlattice/epcsfw/pkg/loader"
	"github.com/brightlattice/epcsfw/pkg/protocol"
)

var uploadProgramHexCmd = &cobra.Command{
	Use:   "program-hex <hexfile>",
	Short: "Program an Intel HEX image record by record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return uploadRecords(args[0], loader.NewIntelHexLoader())
	},
}

var uploadProgramSRECCmd = &cobra.Command{
	Use:   "program-srec <srecfile>",
	Short: "Program a Motorola S-record image record by record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return uploadRecords(args[0], loader.NewSRecLoader())
	},
}

func init() {
	rootCmd.AddCommand(uploadProgramHexCmd)
	rootCmd.AddCommand(uploadProgramSRECCmd)
}

// uploadRecords opens one transport for the whole image and issues one
// F command per address/data record the loader produces, in the order
// the file defines them.
func uploadRecords(path string, l loader.Loader) error {
	tr, err := openTransport()
	if err != nil {
		return fmt.Errorf("failed to open transport: %w", err)
	}
	defer tr.Close()

	client := protocol.NewClient(tr)
	records := 0
	l.SetHandler(func(address uint32, data []byte) error {
		records++
		if err := client.ProgramFlash(address, data); err != nil {
			return fmt.Errorf("record at 0x%08X: %w", address, err)
		}
		return nil
	})

	if err := l.Open(path); err != nil {
		return err
	}
	defer l.Close()

	if err := l.Process(); err != nil {
		return err
	}
	printInfo("Programmed %d record(s) from %s\n", records, path)
	return nil
}
