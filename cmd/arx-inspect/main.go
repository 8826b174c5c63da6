// Arx-inspect decodes ARX.AT sensor advertising packets.
//
// It provides an interactive terminal inspector, a one-shot decode command
// for scripts and pipelines, and an HTTP inspector that other machines on
// the network can use from a browser, over JSON or over a WebSocket.
//
// Usage:
//
//	arx-inspect [command] [flags]
//
// Running without arguments launches the interactive inspector.
// See 'arx-inspect --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/arxinspect/internal/config"
	"github.com/muurk/arxinspect/internal/inspector"
	"github.com/muurk/arxinspect/internal/logging"
	"github.com/muurk/arxinspect/internal/packet"
	"github.com/muurk/arxinspect/internal/version"
)

// errReported is returned by commands that already printed a styled error
var errReported = errors.New("error already reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
	logFile    string
)

// registry is the configuration loaded by PersistentPreRunE
var registry *config.Registry

var rootCmd = &cobra.Command{
	Use:   "arx-inspect",
	Short: "ARX.AT Advertising Packet Inspector",
	Long: `Decode and inspect advertising packets broadcast by ARX.AT sensors.

Paste a raw packet as hex and every field is shown with its raw bytes and
its interpreted value: model, MCU temperature, battery level, value mask
and the six scaled measurement values.

If no command is specified, the interactive inspector will launch automatically.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runInspector,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: OS config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default silent or $"+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs as JSON to this file, rotated by size")

	rootCmd.AddCommand(versionCmd)
}

// setup initializes logging and loads the configuration for every command
func setup(cmd *cobra.Command, args []string) error {
	if err := logging.InitializeWithFile(logLevel, logging.FileOptions{
		Path:       logFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	var err error
	if configPath != "" {
		registry, err = config.LoadFrom(configPath)
	} else {
		registry, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Debug("Configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("layout", registry.Layout().Name),
		zap.Int("custom_models", len(registry.Models)),
	)
	return nil
}

// decodeOptions builds decode options from the configuration, with the
// layout replaced when layoutName is set.
func decodeOptions(layoutName string) (packet.Options, error) {
	opts := packet.Options{
		Layout: registry.Layout(),
		Models: registry.ModelTable(),
	}
	if layoutName != "" {
		l, err := packet.LayoutByName(layoutName)
		if err != nil {
			return packet.Options{}, err
		}
		opts.Layout = l
	}
	return opts, nil
}

func runInspector(cmd *cobra.Command, args []string) error {
	opts, err := decodeOptions("")
	if err != nil {
		return err
	}
	return inspector.Run(cmd.Context(), opts)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Fprintf(cmd.OutOrStdout(), "arx-inspect %s (commit: %s, %s, %s)\n",
			info.Version, info.Commit, info.GoVersion, info.Platform)
	},
}
