package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/bakery2048/internal/model"
	"github.com/mcoot/bakery2048/internal/services/powerup"
)

func newPowerUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "powerup",
		Aliases: []string{"power-up"},
		Short:   "Power-up catalog commands",
	}

	cmd.AddCommand(newPowerUpAddCmd())
	cmd.AddCommand(newPowerUpListCmd())
	cmd.AddCommand(newPowerUpSearchCmd())
	cmd.AddCommand(newPowerUpShowCmd())
	cmd.AddCommand(newPowerUpStatsCmd())
	cmd.AddCommand(newPowerUpUseCmd())
	cmd.AddCommand(newPowerUpUpdateCmd())
	cmd.AddCommand(newPowerUpDeleteCmd())

	return cmd
}

func newPowerUpAddCmd() *cobra.Command {
	in := powerup.NewInput("", "", 0)
	var typ string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a power-up to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := model.ParsePowerUpType(typ)
			if err != nil {
				return fmt.Errorf("%w: %q (want one of %v)", err, typ, model.PowerUpTypes)
			}
			in.Type = t
			return finish(app.PowerUpService.Add(cmd.Context(), in))
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Power-up name (required)")
	cmd.Flags().StringVar(&typ, "type", "", "ScoreBoost, TimeExtension, Undo or SwapTiles (required)")
	cmd.Flags().IntVar(&in.Cost, "cost", 0, "Price in points (required)")
	cmd.Flags().StringVar(&in.Description, "description", "", "What it does")
	cmd.Flags().IntVar(&in.Duration, "duration", in.Duration, "Moves the effect lasts")
	cmd.Flags().IntVar(&in.Cooldown, "cooldown", in.Cooldown, "Moves between uses")
	cmd.Flags().Float64Var(&in.EffectMultiplier, "multiplier", in.EffectMultiplier, "Effect strength")
	cmd.Flags().StringVar(&in.IconURL, "icon-url", "", "Icon reference")
	cmd.Flags().BoolVar(&in.Locked, "locked", false, "Add without unlocking it")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("cost")

	return cmd
}

func newPowerUpListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List power-ups, active first, by cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Print(app.PowerUpService.List())
			return nil
		},
	}
}

func newPowerUpSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Find power-ups by name, description or type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Print(app.PowerUpService.Search(args[0]))
			return nil
		},
	}
}

func newPowerUpShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a power-up's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.PowerUpService.Get(args[0])
			if err != nil {
				return err
			}
			out.Print(p)
			return nil
		},
	}
}

func newPowerUpStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Print(app.PowerUpService.Statistics())
			return nil
		},
	}
}

func newPowerUpUseCmd() *cobra.Command {
	var playerName string

	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Count one use of a power-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if playerName == "" {
				return finish(app.PowerUpService.RecordUsage(cmd.Context(), args[0]))
			}

			if _, err := app.PlayerService.Get(playerName); err != nil {
				return err
			}
			p, err := app.PowerUpService.RecordUsage(cmd.Context(), args[0])
			if err != nil && !errors.Is(err, model.ErrPersistFailed) {
				return err
			}
			_, playerErr := app.PlayerService.UsePowerUp(cmd.Context(), playerName)
			out.Print(p)
			return errors.Join(err, playerErr)
		},
	}

	cmd.Flags().StringVar(&playerName, "player", "", "Also count the use against this player")

	return cmd
}

func newPowerUpUpdateCmd() *cobra.Command {
	var name, typ, description, iconURL string
	var duration, cost, cooldown int
	var multiplier float64
	var toggleUnlocked, toggleActive bool

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Edit a power-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			patch := powerup.Patch{
				ToggleUnlocked: toggleUnlocked,
				ToggleActive:   toggleActive,
			}
			if changed("name") {
				patch.Name = &name
			}
			if changed("type") {
				t, err := model.ParsePowerUpType(typ)
				if err != nil {
					return fmt.Errorf("%w: %q (want one of %v)", err, typ, model.PowerUpTypes)
				}
				patch.Type = &t
			}
			if changed("description") {
				patch.Description = &description
			}
			if changed("duration") {
				patch.Duration = &duration
			}
			if changed("cost") {
				patch.Cost = &cost
			}
			if changed("cooldown") {
				patch.Cooldown = &cooldown
			}
			if changed("multiplier") {
				patch.EffectMultiplier = &multiplier
			}
			if changed("icon-url") {
				patch.IconURL = &iconURL
			}
			if patch == (powerup.Patch{}) {
				return fmt.Errorf("nothing to update")
			}
			return finish(app.PowerUpService.Update(cmd.Context(), args[0], patch))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&typ, "type", "", "New type")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().IntVar(&duration, "duration", 0, "New duration in moves")
	cmd.Flags().IntVar(&cost, "cost", 0, "New price in points")
	cmd.Flags().IntVar(&cooldown, "cooldown", 0, "New cooldown in moves")
	cmd.Flags().Float64Var(&multiplier, "multiplier", 0, "New effect multiplier")
	cmd.Flags().StringVar(&iconURL, "icon-url", "", "New icon reference")
	cmd.Flags().BoolVar(&toggleUnlocked, "toggle-unlocked", false, "Lock or unlock the power-up")
	cmd.Flags().BoolVar(&toggleActive, "toggle-active", false, "Retire or restore the power-up")

	return cmd
}

func newPowerUpDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a power-up permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirmDelete(yes); err != nil {
				return err
			}
			p, err := app.PowerUpService.Delete(cmd.Context(), args[0])
			if err != nil && !errors.Is(err, model.ErrPersistFailed) {
				return err
			}
			out.PrintMessage(fmt.Sprintf("Deleted power-up %s", p.Name))
			return err
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	return cmd
}
