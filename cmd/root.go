/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log/slog"
	"os"

	"github.com/constante/apiserver/config"
	"github.com/constante/apiserver/internal/logging"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "constante",
	Short: "Habit tracker API server",
	Long: `constante tracks personal habits and their daily completion records
behind a bearer-token authenticated JSON API.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	logger := logging.Setup(cfg.Log.Format, cfg.Log.Level, os.Stderr)
	slog.SetDefault(logger)
	return logger
}
