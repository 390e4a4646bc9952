package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnold/visionboard-api/internal/app"
	"github.com/arnold/visionboard-api/internal/database"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Migrate(db); err != nil {
				return err
			}

			a, err := app.Build(ctx, cfg, db)
			if err != nil {
				return err
			}
			server := a.Server()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Server starting on port %s", cfg.Port)
				errCh <- server.Listen(":" + cfg.Port)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Println("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return server.ShutdownWithContext(shutdownCtx)
		},
	}
}
