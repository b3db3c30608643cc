package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brightlattice/epcsfw/pkg/config"
	"github.com/brightlattice/epcsfw/pkg/transport"
)

var (
	portFlag string
	cfgFile  string
	quiet    bool

	cfg *config.Config
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "epcsctl",
	Short: "Host-side companion for the EPCS command protocol",
	Long: `epcsctl talks the same R/W/V/F protocol epcsd serves, for
register peek/poke, version queries, and flash programming from the
operator's workstation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		name := cfgFile
		if name == "" {
			name = "epcsctl.ini"
		}
		loaded, err := config.Load(name)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if portFlag != "" {
			cfg.Port = portFlag
		}
		if quiet {
			log.SetLevel(logrus.WarnLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default epcsctl.ini)")
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "", "serial port or host:port (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress informational output")
}

func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format, args...)
	}
}

func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

// openTransport dials cfg.Port: a "host:port" string goes over TCP,
// anything else is treated as a serial device node.
func openTransport() (transport.Transport, error) {
	if strings.Contains(cfg.Port, ":") {
		return transport.DialTCP(cfg.Port)
	}
	return transport.OpenSerial(cfg.Port, cfg.BaudRate, time.Duration(cfg.TimeoutMs)*time.Millisecond)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}
