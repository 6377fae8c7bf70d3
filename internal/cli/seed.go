package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/bakery2048/internal/dependencies/random"
	"github.com/mcoot/bakery2048/internal/services/seed"
)

func newSeedCmd() *cobra.Command {
	var players int
	var randSeed uint64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill storage with the default catalogs and random players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if players < 0 {
				return fmt.Errorf("--players must not be negative")
			}
			service := app.SeedService
			if cmd.Flags().Changed("rand-seed") {
				service = seed.New(app.PlayerService, app.TileService, app.PowerUpService, random.NewSeeded(randSeed), app.Logger)
			}
			result, err := service.Generate(cmd.Context(), seed.Options{Players: players})
			out.Print(result)
			return err
		},
	}

	cmd.Flags().IntVar(&players, "players", 10, "Number of random players to create")
	cmd.Flags().Uint64Var(&randSeed, "rand-seed", 0, "Seed for reproducible players")

	return cmd
}
