package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/arnold/visionboard-api/internal/config"
	"github.com/arnold/visionboard-api/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var Version = "dev"

var (
	configFile string
	cfg        *config.Config
	logCloser  io.Closer
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "visionboard",
		Short:   "Vision board time capsule API",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
			}
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "YAML file overriding environment settings")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg = config.Load()
	if configFile != "" {
		if err := config.LoadFile(cfg, configFile); err != nil {
			return err
		}
	}

	logCloser = logging.Setup(cfg.LogFile)
	return nil
}
