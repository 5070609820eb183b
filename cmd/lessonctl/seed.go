package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ageback-backend-go/internal/app"
	"ageback-backend-go/internal/core"
	"ageback-backend-go/internal/storage"
)

func newSeedCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-lessons",
		Short: "Insert every catalog lesson missing from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := app.BuildStore(ctx, e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			// Seeding never resolves links, so no file store is needed.
			audit := core.NewAuditService(store.Audit, e.logger)
			lessons := core.NewLessonService(store.Lessons, storage.Disabled{}, audit, e.cfg.FileStoreTimeout, e.logger)

			inserted, err := lessons.SeedDefaults(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d lesson(s)\n", inserted)
			return nil
		},
	}
}
