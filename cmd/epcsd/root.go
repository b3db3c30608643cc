package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brightlattice/epcsfw/pkg/config"
)

var (
	cfgFile string
	quiet   bool

	cfg *config.Config
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "epcsd",
	Short: "EPCS command protocol firmware process",
	Long: `epcsd runs the command loop that lets a host workstation read
and write registers, query version identifiers, and program the
board's serial NOR flash over a line-oriented ASCII protocol.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		name := cfgFile
		if name == "" {
			name = "epcsd.ini"
		}
		loaded, err := config.Load(name)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		if quiet {
			log.SetLevel(logrus.WarnLevel)
		}
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default epcsd.ini)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress informational logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
