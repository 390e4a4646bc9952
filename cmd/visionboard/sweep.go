package main

import (
	"encoding/json"
	"os"

	"github.com/arnold/visionboard-api/internal/app"
	"github.com/arnold/visionboard-api/internal/database"
	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Send today's due reminder emails once and exit",
		Long: `Run one delivery sweep, for use from a system cron job instead of
the HTTP cron endpoint. The result is printed as JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			a, err := app.Build(cmd.Context(), cfg, db)
			if err != nil {
				return err
			}
			result, err := a.Sweeper.Run(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
