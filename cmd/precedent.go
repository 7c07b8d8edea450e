package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kofibk/icomplain.ai-sub000/internal/precedent"
)

var precedentCmd = &cobra.Command{
	Use:   "precedent",
	Short: "Manage the precedent store",
}

var precedentMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the precedent schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("precedent"); err != nil {
			return err
		}

		store, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			return err
		}
		zap.L().Info("precedent schema up to date")
		return nil
	},
}

var precedentSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter precedent set into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("precedent"); err != nil {
			return err
		}

		store, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate before seed")
		}
		inserted, err := precedent.Seed(ctx, store)
		if err != nil {
			return err
		}
		zap.L().Info("seed complete", zap.Int("inserted", inserted))
		return nil
	},
}

var precedentStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show precedent store row count",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("precedent"); err != nil {
			return err
		}

		store, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Count(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("precedent store status",
			zap.String("driver", cfg.Store.Driver),
			zap.Int("precedents", n),
		)
		return nil
	},
}

func init() {
	precedentCmd.AddCommand(precedentMigrateCmd)
	precedentCmd.AddCommand(precedentSeedCmd)
	precedentCmd.AddCommand(precedentStatusCmd)
	rootCmd.AddCommand(precedentCmd)
}
