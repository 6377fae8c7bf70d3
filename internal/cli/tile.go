package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/bakery2048/internal/model"
	"github.com/mcoot/bakery2048/internal/services/tile"
)

func newTileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Tile catalog commands",
	}

	cmd.AddCommand(newTileAddCmd())
	cmd.AddCommand(newTileListCmd())
	cmd.AddCommand(newTileSearchCmd())
	cmd.AddCommand(newTileShowCmd())
	cmd.AddCommand(newTileStatsCmd())
	cmd.AddCommand(newTileUpdateCmd())
	cmd.AddCommand(newTileDeleteCmd())

	return cmd
}

func newTileAddCmd() *cobra.Command {
	var in tile.Input

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a tile to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return finish(app.TileService.Add(cmd.Context(), in))
		},
	}

	cmd.Flags().StringVar(&in.ItemName, "name", "", "Item name (required)")
	cmd.Flags().IntVar(&in.TileValue, "value", 0, "Board value, e.g. 2, 4, 8 (required)")
	cmd.Flags().StringVar(&in.Icon, "icon", "", "Icon, usually an emoji")
	cmd.Flags().StringVar(&in.Color, "color", model.DefaultTileColor, "Hex color, e.g. #FFD700")
	cmd.Flags().BoolVar(&in.IsSpecialItem, "special", false, "Mark as a special item")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newTileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tiles, active first, by value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Print(app.TileService.List())
			return nil
		},
	}
}

func newTileSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Find tiles by name or value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Print(app.TileService.Search(args[0]))
			return nil
		},
	}
}

func newTileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|value>",
		Short: "Show a tile's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.TileService.Find(args[0])
			if err != nil {
				return err
			}
			out.Print(t)
			return nil
		},
	}
}

func newTileStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out.Print(app.TileService.Statistics())
			return nil
		},
	}
}

func newTileUpdateCmd() *cobra.Command {
	var name, icon, color string
	var value int
	var toggleSpecial, toggleActive bool

	cmd := &cobra.Command{
		Use:   "update <name|value>",
		Short: "Edit a tile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			patch := tile.Patch{
				ToggleSpecial: toggleSpecial,
				ToggleActive:  toggleActive,
			}
			if changed("name") {
				patch.ItemName = &name
			}
			if changed("value") {
				patch.TileValue = &value
			}
			if changed("icon") {
				patch.Icon = &icon
			}
			if changed("color") {
				patch.Color = &color
			}
			if patch == (tile.Patch{}) {
				return fmt.Errorf("nothing to update")
			}
			return finish(app.TileService.Update(cmd.Context(), args[0], patch))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New item name")
	cmd.Flags().IntVar(&value, "value", 0, "New board value")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon")
	cmd.Flags().StringVar(&color, "color", "", "New hex color")
	cmd.Flags().BoolVar(&toggleSpecial, "toggle-special", false, "Flip the special-item flag")
	cmd.Flags().BoolVar(&toggleActive, "toggle-active", false, "Retire or restore the tile")

	return cmd
}

func newTileDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name|value>",
		Short: "Remove a tile permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirmDelete(yes); err != nil {
				return err
			}
			t, err := app.TileService.Delete(cmd.Context(), args[0])
			if err != nil && !errors.Is(err, model.ErrPersistFailed) {
				return err
			}
			out.PrintMessage(fmt.Sprintf("Deleted tile %s (%d)", t.ItemName, t.TileValue))
			return err
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	return cmd
}
