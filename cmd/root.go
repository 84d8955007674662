package cmd

import (
	"fmt"
	"os"

	"TrackDrop/config"
	"TrackDrop/logger"
	"TrackDrop/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trackdrop",
	Short: "TrackDrop stores uploaded tracks with their likes and comments.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and initializes the logger from it.
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.InitLogger(logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})
	return cfg
}

func runServer() error {
	cfg := loadConfig()
	defer logger.Sync()
	return server.Start(cfg)
}
