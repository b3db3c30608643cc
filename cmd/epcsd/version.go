package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the configured FPGA and NIOS version identifiers",
	Long: `version prints exactly what the V command would report,
without opening a transport. Useful for deployment smoke-testing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("FPGA=0x%08X NIOS=0x%08X\n", cfg.FPGAVersion, cfg.NIOSVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
