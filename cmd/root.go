package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel  string // Log verbosity level
	logFormat string // Log output format
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cpusim",
	Short: "Discrete-event simulator for CPU dispatching policies",
	Long: "cpusim simulates FCFS, SJF, Priority, Round Robin and Priority + Round Robin dispatching\n" +
		"over a static set of processes and reports per-process timing and run-wide metrics.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := configureLogging(logLevel, logFormat); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// configureLogging applies the --log and --log-format flags to the standard logger.
func configureLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", level)
	}
	logrus.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q; valid: text, json", format)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}
