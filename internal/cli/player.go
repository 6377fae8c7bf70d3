package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/bakery2048/internal/model"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerSearchCmd())
	cmd.AddCommand(newPlayerShowCmd())
	cmd.AddCommand(newPlayerStatsCmd())
	cmd.AddCommand(newPlayerLeaderboardCmd())
	cmd.AddCommand(newPlayerRecordCmd())
	cmd.AddCommand(newPlayerUpdateCmd())
	cmd.AddCommand(newPlayerDeleteCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player",
		RunE: func(cmd *cobra.Command, args []string) error {
			return finish(app.PlayerService.Register(cmd.Context(), name, email))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Print(app.PlayerService.List())
			return nil
		},
	}
}

func newPlayerSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Find players whose name contains a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Print(app.PlayerService.Search(args[0]))
			return nil
		},
	}
}

func newPlayerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a player's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.PlayerService.Get(args[0])
			if err != nil {
				return err
			}
			out.Print(p)
			return nil
		},
	}
}

func newPlayerStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics across all players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Print(app.PlayerService.Statistics())
			return nil
		},
	}
}

func newPlayerLeaderboardCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "List players by highest score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 1 {
				return fmt.Errorf("--top must be at least 1")
			}
			out.Print(app.PlayerService.Leaderboard(top))
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "Number of players to show")

	return cmd
}

func newPlayerRecordCmd() *cobra.Command {
	var score, bestTile, moves int
	var minutes float64
	var powerUps []string

	cmd := &cobra.Command{
		Use:   "record <name>",
		Short: "Record a completed game for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if score < 0 || bestTile < 0 || moves < 0 || minutes < 0 {
				return fmt.Errorf("--score, --best-tile, --moves and --minutes must not be negative")
			}
			for _, name := range powerUps {
				if _, err := app.PowerUpService.Get(name); err != nil {
					return fmt.Errorf("power-up %q: %w", name, err)
				}
			}

			session := model.GameSession{
				FinalScore:   score,
				BestTile:     bestTile,
				Moves:        moves,
				Duration:     time.Duration(minutes * float64(time.Minute)),
				PowerUpsUsed: powerUps,
				ReachedWin:   model.IsWinningTile(bestTile),
			}
			p, err := app.PlayerService.RecordSession(cmd.Context(), args[0], session)
			if err != nil && !errors.Is(err, model.ErrPersistFailed) {
				return err
			}

			errs := []error{err}
			for _, name := range powerUps {
				if _, useErr := app.PowerUpService.RecordUsage(cmd.Context(), name); useErr != nil {
					errs = append(errs, useErr)
				}
			}

			out.Print(p)
			return errors.Join(errs...)
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "Final score (required)")
	cmd.Flags().IntVar(&bestTile, "best-tile", 0, "Highest tile value reached (required)")
	cmd.Flags().IntVar(&moves, "moves", 0, "Moves made")
	cmd.Flags().Float64Var(&minutes, "minutes", 0, "Game length in minutes")
	cmd.Flags().StringArrayVar(&powerUps, "powerup", nil, "Power-up used during the game (repeatable)")
	_ = cmd.MarkFlagRequired("score")
	_ = cmd.MarkFlagRequired("best-tile")

	return cmd
}

func newPlayerUpdateCmd() *cobra.Command {
	var email, favorite string
	var score, level, bestTile int
	var hours float64
	var resetScore, toggleActive bool

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Edit a player's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			changed := cmd.Flags().Changed

			type step func() (*model.Player, error)
			var steps []step

			if changed("email") {
				steps = append(steps, func() (*model.Player, error) {
					return app.PlayerService.UpdateEmail(ctx, name, email)
				})
			}
			if changed("score") {
				if score < 0 {
					return fmt.Errorf("--score must not be negative")
				}
				steps = append(steps, func() (*model.Player, error) {
					return app.PlayerService.UpdateScore(ctx, name, score)
				})
			}
			if resetScore {
				steps = append(steps, func() (*model.Player, error) {
					return app.PlayerService.ResetCurrentGame(ctx, name)
				})
			}
			if changed("best-tile") {
				if bestTile < 0 {
					return fmt.Errorf("--best-tile must not be negative")
				}
				steps = append(steps, func() (*model.Player, error) {
					return app.PlayerService.UpdateBestTile(ctx, name, bestTile)
				})
			}
			if changed("level") {
				if level < 1 {
					return fmt.Errorf("--level must be at least 1")
				}
				steps = append(steps, func() (*model.Player, error) {
					return app.PlayerService.SetLevel(ctx, name, level)
				})
			}
			if changed("add-hours") {
				if hours < 0 {
					return fmt.Errorf("--add-hours must not be negative")
				}
				steps = append(steps, func() (*model.Player, error) {
					return app.PlayerService.AddPlayTime(ctx, name, time.Duration(hours*float64(time.Hour)))
				})
			}
			if changed("favorite") {
				steps = append(steps, func() (*model.Player, error) {
					return app.PlayerService.SetFavoriteItem(ctx, name, favorite)
				})
			}
			if toggleActive {
				steps = append(steps, func() (*model.Player, error) {
					return app.PlayerService.ToggleActive(ctx, name)
				})
			}
			if len(steps) == 0 {
				return fmt.Errorf("nothing to update")
			}

			var p *model.Player
			var err error
			for _, apply := range steps {
				if p, err = apply(); err != nil {
					break
				}
			}
			return finish(p, err)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "New email")
	cmd.Flags().IntVar(&score, "score", 0, "Record a bare score as one more game")
	cmd.Flags().BoolVar(&resetScore, "reset-score", false, "Clear the current score ahead of a new game")
	cmd.Flags().IntVar(&bestTile, "best-tile", 0, "Raise the best tile achieved")
	cmd.Flags().IntVar(&level, "level", 1, "Override the level until the next score")
	cmd.Flags().Float64Var(&hours, "add-hours", 0, "Add to total play time")
	cmd.Flags().StringVar(&favorite, "favorite", "", "Favorite item")
	cmd.Flags().BoolVar(&toggleActive, "toggle-active", false, "Deactivate or reactivate the player")

	return cmd
}

func newPlayerDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a player permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirmDelete(yes); err != nil {
				return err
			}
			p, err := app.PlayerService.Delete(cmd.Context(), args[0])
			if err != nil && !errors.Is(err, model.ErrPersistFailed) {
				return err
			}
			out.PrintMessage(fmt.Sprintf("Deleted player %s", p.Name))
			return err
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	return cmd
}
