package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightlattice/epcsfw/pkg/protocol"
	"github.com/brightlattice/epcsfw/pkg/regsyms"
	"github.com/brightlattice/epcsfw/pkg/util"
)

var regName string

var regReadCmd = &cobra.Command{
	Use:   "read <hexaddr>",
	Short: "Read a register",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := resolveRegAddr(args)
		if err != nil {
			return err
		}
		tr, err := openTransport()
		if err != nil {
			return fmt.Errorf("failed to open transport: %w", err)
		}
		defer tr.Close()

		v, err := protocol.NewClient(tr).ReadRegister(addr)
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
		printInfo("0x%08X = 0x%08X\n", addr, v)
		return nil
	},
}

var regWriteCmd = &cobra.Command{
	Use:   "write <hexaddr> <hexval>",
	Short: "Write a register",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if regName == "" && len(args) != 2 {
			return fmt.Errorf("write requires <hexaddr> <hexval>, or --name <hexval>")
		}
		var addr uint32
		var valArgIdx int
		var err error
		if regName != "" {
			addr, err = resolveRegName(regName)
			valArgIdx = 0
		} else {
			addr, err = util.ParseHexAddress(args[0])
			valArgIdx = 1
		}
		if err != nil {
			return err
		}
		val, err := util.ParseHexAddress(args[valArgIdx])
		if err != nil {
			return fmt.Errorf("invalid value: %w", err)
		}

		tr, err := openTransport()
		if err != nil {
			return fmt.Errorf("failed to open transport: %w", err)
		}
		defer tr.Close()

		if err := protocol.NewClient(tr).WriteRegister(addr, val); err != nil {
			return fmt.Errorf("write failed: %w", err)
		}
		printInfo("0x%08X <- 0x%08X\n", addr, val)
		return nil
	},
}

func init() {
	regCmd := &cobra.Command{
		Use:   "reg",
		Short: "Register read/write",
	}
	regCmd.AddCommand(regReadCmd)
	regCmd.AddCommand(regWriteCmd)
	regReadCmd.Flags().StringVar(&regName, "name", "", "resolve a symbolic register name instead of a hex address")
	regWriteCmd.Flags().StringVar(&regName, "name", "", "resolve a symbolic register name instead of a hex address")
	rootCmd.AddCommand(regCmd)
}

func resolveRegAddr(args []string) (uint32, error) {
	if regName != "" {
		return resolveRegName(regName)
	}
	if len(args) != 1 {
		return 0, fmt.Errorf("read requires <hexaddr> or --name")
	}
	return util.ParseHexAddress(args[0])
}

func resolveRegName(name string) (uint32, error) {
	if cfg.RegSymFile == "" {
		return 0, fmt.Errorf("no register symbol file configured (set reg_sym_file)")
	}
	tbl := regsyms.New()
	if err := tbl.Load(cfg.RegSymFile); err != nil {
		return 0, err
	}
	return tbl.Lookup(name)
}
