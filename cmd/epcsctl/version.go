package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightlattice/epcsfw/pkg/protocol"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Query FPGA and NIOS version identifiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := openTransport()
		if err != nil {
			return fmt.Errorf("failed to open transport: %w", err)
		}
		defer tr.Close()

		v, err := protocol.NewClient(tr).Version()
		if err != nil {
			return fmt.Errorf("version query failed: %w", err)
		}
		printInfo("FPGA=0x%08X NIOS=0x%08X\n", v.FPGA, v.NIOS)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
