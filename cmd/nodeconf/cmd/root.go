// Package cmd implements the nodeconf command line tool: a thin operator
// surface over the nodes configuration manager, backed by a local badger store.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagDataDir  string
	flagLogLevel string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nodeconf",
	Short: "Inspect and modify the cluster nodes configuration",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "datadir", "data",
		"directory for the configuration store")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "loglevel", "info",
		"log level (trace, debug, info, warn, error)")
}
