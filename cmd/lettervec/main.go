package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kalambet/lettervec/internal/config"
)

var version = "dev"

var (
	noColor  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "lettervec",
	Short:         "Chunk, embed and store documents for vector search",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFiles("."); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
}

// setupLogging installs the default slog handler. The flag wins over config.
func setupLogging(cfg config.Config) {
	level := cfg.SlogLevel()
	if logLevel != "" {
		level = config.ParseLevel(logLevel)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
