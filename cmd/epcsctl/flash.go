package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightlattice/epcsfw/pkg/flash"
	"github.com/brightlattice/epcsfw/pkg/protocol"
	"github.com/brightlattice/epcsfw/pkg/util"
)

var (
	flashAddress string
	flashLength  string
)

var flashProgramCmd = &cobra.Command{
	Use:   "program <binfile>",
	Short: "Program a raw binary file to flash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := util.ParseHexAddress(flashAddress)
		if err != nil {
			return fmt.Errorf("invalid address: %w", err)
		}
		data, err := util.ReadFile(args[0])
		if err != nil {
			return err
		}
		return programFlash(addr, data)
	},
}

var flashEraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "Erase a range of flash back to 0xFF",
	Long: `erase programs the given range with 0xFF bytes. The protocol
has no dedicated erase verb; the firmware's flash engine erases a
sector whenever the content it is asked to program actually differs
from what's already there, so programming all-0xFF achieves the same
result as an explicit erase for any range that wasn't already blank.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := util.ParseHexAddress(flashAddress)
		if err != nil {
			return fmt.Errorf("invalid address: %w", err)
		}
		length, err := util.ParseHexAddress(flashLength)
		if err != nil {
			return fmt.Errorf("invalid length: %w", err)
		}
		if !util.ConfirmDanger(fmt.Sprintf("erase 0x%X bytes at 0x%08X", length, addr)) {
			printInfo("aborted.\n")
			return nil
		}
		blank := bytes.Repeat([]byte{flash.EraseValue}, int(length))
		return programFlash(addr, blank)
	},
}

var flashVerifyCRCCmd = &cobra.Command{
	Use:   "verify-crc <file>",
	Short: "Report the CRC32 of a file for comparison against a release manifest",
	Long: `The protocol has no flash read-back verb, so verify-crc can
only check the bytes that were staged locally, not what the firmware
actually committed. Compare its output against a known-good manifest.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := util.ReadFile(args[0])
		if err != nil {
			return err
		}
		printInfo("CRC32: 0x%08X (%d bytes)\n", util.CalculateCRC32(data), len(data))
		return nil
	},
}

func init() {
	flashCmd := &cobra.Command{
		Use:   "flash",
		Short: "Flash programming",
	}
	flashCmd.AddCommand(flashProgramCmd)
	flashCmd.AddCommand(flashEraseCmd)
	flashCmd.AddCommand(flashVerifyCRCCmd)

	flashProgramCmd.Flags().StringVar(&flashAddress, "address", "0", "target address (hex)")
	flashEraseCmd.Flags().StringVar(&flashAddress, "address", "0", "target address (hex)")
	flashEraseCmd.Flags().StringVar(&flashLength, "length", "", "number of bytes to erase (hex)")
	flashEraseCmd.MarkFlagRequired("length")

	rootCmd.AddCommand(flashCmd)
}

// programFlash streams data to the firmware in cfg.ChunkSize pieces,
// each its own F command.
func programFlash(addr uint32, data []byte) error {
	tr, err := openTransport()
	if err != nil {
		return fmt.Errorf("failed to open transport: %w", err)
	}
	defer tr.Close()

	client := protocol.NewClient(tr)

	printInfo("Programming %d bytes at 0x%08X...\n", len(data), addr)
	chunkSize := cfg.ChunkSize
	for offset := 0; offset < len(data); offset += chunkSize {
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[offset:end]
		if err := client.ProgramFlash(addr+uint32(offset), chunk); err != nil {
			return fmt.Errorf("program failed at offset 0x%X: %w", offset, err)
		}
	}
	printInfo("Done.\n")
	return nil
}
