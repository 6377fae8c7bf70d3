package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/mcoot/bakery2048/internal/model"
	"github.com/mcoot/bakery2048/internal/services/player"
	"github.com/mcoot/bakery2048/internal/services/powerup"
	"github.com/mcoot/bakery2048/internal/services/seed"
	"github.com/mcoot/bakery2048/internal/services/tile"
)

const timeLayout = "2006-01-02 15:04"

var (
	headingColor  = color.New(color.FgCyan, color.Bold)
	activeColor   = color.New(color.FgGreen)
	inactiveColor = color.New(color.FgRed)
	warningColor  = color.New(color.FgYellow)
	errorColor    = color.New(color.FgRed, color.Bold)
	specialColor  = color.New(color.FgMagenta)
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"code":    classify(err).code,
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errW, string(data))
	} else {
		errorColor.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintWarning outputs a non-fatal problem
func (o *Output) PrintWarning(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"warning": msg})
		fmt.Fprintln(o.errW, string(data))
	} else {
		warningColor.Fprintf(o.errW, "Warning: %s\n", msg)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case *model.Player:
		o.printPlayer(v)
	case []*model.Player:
		o.printPlayers(v)
	case player.Stats:
		o.printPlayerStats(v)
	case *model.Tile:
		o.printTile(v)
	case []*model.Tile:
		o.printTiles(v)
	case tile.Stats:
		o.printTileStats(v)
	case *model.PowerUp:
		o.printPowerUp(v)
	case []*model.PowerUp:
		o.printPowerUps(v)
	case powerup.Stats:
		o.printPowerUpStats(v)
	case seed.Result:
		o.printSeedResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func status(r *model.Record) string {
	if r.IsActive {
		return activeColor.Sprint(r.StatusLabel())
	}
	return inactiveColor.Sprint(r.StatusLabel())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (o *Output) printPlayer(p *model.Player) {
	headingColor.Fprintf(o.w, "Player: %s\n", p.Name)
	fmt.Fprintf(o.w, "ID: %s\n", p.ID)
	fmt.Fprintf(o.w, "Email: %s\n", p.Email)
	fmt.Fprintf(o.w, "Status: %s\n", status(p.Meta()))
	fmt.Fprintf(o.w, "Rank: %s (level %d)\n", p.GetRankCategory(), p.Level)
	fmt.Fprintf(o.w, "Score: %d current, %d highest\n", p.CurrentScore, p.HighestScore)
	fmt.Fprintf(o.w, "Best Tile: %d\n", p.BestTileAchieved)
	fmt.Fprintf(o.w, "Games Played: %d (average %.1f)\n", p.GamesPlayed, p.AverageScore)
	fmt.Fprintf(o.w, "Win Streak: %d\n", p.WinStreak)
	fmt.Fprintf(o.w, "Moves: %d (efficiency %.2f)\n", p.TotalMoves, p.GetEfficiency())
	fmt.Fprintf(o.w, "Play Time: %s\n", p.TotalPlayTime.Round(time.Second))
	fmt.Fprintf(o.w, "Power-ups Used: %d\n", p.PowerUpsUsed)
	if p.FavoriteItem != "" {
		fmt.Fprintf(o.w, "Favorite Item: %s\n", p.FavoriteItem)
	}
	fmt.Fprintf(o.w, "Registered: %s\n", p.DateRegistered().Format(timeLayout))
	fmt.Fprintf(o.w, "Last Played: %s\n", p.LastPlayed.Format(timeLayout))
}

func (o *Output) printPlayers(players []*model.Player) {
	if len(players) == 0 {
		fmt.Fprintln(o.w, "No players found")
		return
	}
	headingColor.Fprintf(o.w, "%-20s %6s %10s %6s %10s  %s\n", "NAME", "LEVEL", "HIGHEST", "GAMES", "AVERAGE", "STATUS")
	for _, p := range players {
		fmt.Fprintf(o.w, "%-20s %6d %10d %6d %10.1f  %s\n",
			p.Name, p.Level, p.HighestScore, p.GamesPlayed, p.AverageScore, status(p.Meta()))
	}
}

func (o *Output) printPlayerStats(s player.Stats) {
	headingColor.Fprintln(o.w, "Player Statistics")
	fmt.Fprintf(o.w, "Players: %d (%d active, %d inactive, %d dormant)\n",
		s.TotalPlayers, s.ActivePlayers, s.InactivePlayers, s.DormantPlayers)
	fmt.Fprintf(o.w, "Games Played: %d\n", s.TotalGamesPlayed)
	fmt.Fprintf(o.w, "Highest Score: %d\n", s.HighestScore)
	fmt.Fprintf(o.w, "Average High Score: %.1f\n", s.AverageHighScore)
	if s.TopPlayer != nil {
		fmt.Fprintf(o.w, "Top Player: %s (%s)\n", s.TopPlayer.Name, s.TopPlayer.GetRankCategory())
	}
	if len(s.Leaderboard) > 0 {
		headingColor.Fprintln(o.w, "\nLeaderboard")
		for i, p := range s.Leaderboard {
			fmt.Fprintf(o.w, "  %d. %s\n", i+1, p.LeaderboardEntry())
		}
	}
}

func (o *Output) printTile(t *model.Tile) {
	headingColor.Fprintf(o.w, "Tile: %s %s\n", t.Icon, t.ItemName)
	fmt.Fprintf(o.w, "ID: %s\n", t.ID)
	fmt.Fprintf(o.w, "Value: %d\n", t.TileValue)
	fmt.Fprintf(o.w, "Color: %s\n", t.Color)
	if t.IsSpecialItem {
		specialColor.Fprintln(o.w, "Special: yes")
	} else {
		fmt.Fprintln(o.w, "Special: no")
	}
	fmt.Fprintf(o.w, "Status: %s\n", status(t.Meta()))
	fmt.Fprintf(o.w, "Modified: %s\n", t.DateModified.Format(timeLayout))
}

func (o *Output) printTiles(tiles []*model.Tile) {
	if len(tiles) == 0 {
		fmt.Fprintln(o.w, "No tiles found")
		return
	}
	headingColor.Fprintf(o.w, "%6s  %-20s %-8s %-8s  %s\n", "VALUE", "NAME", "COLOR", "SPECIAL", "STATUS")
	for _, t := range tiles {
		name := t.ItemName
		if t.Icon != "" {
			name = t.Icon + " " + name
		}
		fmt.Fprintf(o.w, "%6d  %-20s %-8s %-8s  %s\n", t.TileValue, name, t.Color, yesNo(t.IsSpecialItem), status(t.Meta()))
	}
}

func (o *Output) printTileStats(s tile.Stats) {
	headingColor.Fprintln(o.w, "Tile Statistics")
	fmt.Fprintf(o.w, "Tiles: %d (%d active, %d special)\n", s.TotalTiles, s.ActiveTiles, s.SpecialTiles)
	if s.ActiveTiles > 0 {
		fmt.Fprintf(o.w, "Values: %d to %d (average %.1f)\n", s.MinValue, s.MaxValue, s.AverageValue)
	}
	if len(s.Specials) > 0 {
		names := make([]string, 0, len(s.Specials))
		for _, t := range s.Specials {
			names = append(names, t.ItemName)
		}
		fmt.Fprintf(o.w, "Special Items: %s\n", strings.Join(names, ", "))
	}
}

func (o *Output) printPowerUp(p *model.PowerUp) {
	headingColor.Fprintf(o.w, "Power-up: %s\n", p.Name)
	fmt.Fprintf(o.w, "ID: %s\n", p.ID)
	fmt.Fprintf(o.w, "Type: %s\n", p.Type)
	if p.Description != "" {
		fmt.Fprintf(o.w, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(o.w, "Cost: %d\n", p.Cost)
	fmt.Fprintf(o.w, "Duration: %d moves\n", p.Duration)
	fmt.Fprintf(o.w, "Cooldown: %d moves\n", p.Cooldown)
	fmt.Fprintf(o.w, "Multiplier: %.2fx\n", p.EffectMultiplier)
	fmt.Fprintf(o.w, "Unlocked: %s\n", yesNo(p.IsUnlocked))
	fmt.Fprintf(o.w, "Times Used: %d\n", p.UsageCount)
	if p.IconURL != "" {
		fmt.Fprintf(o.w, "Icon: %s\n", p.IconURL)
	}
	fmt.Fprintf(o.w, "Status: %s\n", status(p.Meta()))
}

func (o *Output) printPowerUps(items []*model.PowerUp) {
	if len(items) == 0 {
		fmt.Fprintln(o.w, "No power-ups found")
		return
	}
	headingColor.Fprintf(o.w, "%6s  %-20s %-14s %6s %8s  %s\n", "COST", "NAME", "TYPE", "USES", "UNLOCKED", "STATUS")
	for _, p := range items {
		fmt.Fprintf(o.w, "%6d  %-20s %-14s %6d %8s  %s\n",
			p.Cost, p.Name, p.Type, p.UsageCount, yesNo(p.IsUnlocked), status(p.Meta()))
	}
}

func (o *Output) printPowerUpStats(s powerup.Stats) {
	headingColor.Fprintln(o.w, "Power-up Statistics")
	fmt.Fprintf(o.w, "Power-ups: %d (%d active, %d unlocked)\n", s.TotalPowerUps, s.ActivePowerUps, s.UnlockedPowerUps)
	if s.ActivePowerUps > 0 {
		fmt.Fprintf(o.w, "Cost: %d to %d (average %.1f)\n", s.MinCost, s.MaxCost, s.AverageCost)
	}
	fmt.Fprintf(o.w, "Total Uses: %d\n", s.TotalUsage)
	if len(s.ByType) > 0 {
		headingColor.Fprintln(o.w, "\nBy Type")
		for _, tc := range s.ByType {
			fmt.Fprintf(o.w, "  %-14s %d\n", tc.Type, tc.Count)
		}
	}
	if len(s.MostUsed) > 0 {
		headingColor.Fprintln(o.w, "\nMost Used")
		for i, p := range s.MostUsed {
			fmt.Fprintf(o.w, "  %d. %s (%d uses)\n", i+1, p.Name, p.UsageCount)
		}
	}
}

func (o *Output) printSeedResult(r seed.Result) {
	headingColor.Fprintln(o.w, "Seed complete")
	fmt.Fprintf(o.w, "Tiles: %d added, %d skipped\n", r.TilesAdded, r.TilesSkipped)
	fmt.Fprintf(o.w, "Power-ups: %d added, %d skipped\n", r.PowerUpsAdded, r.PowerUpsSkipped)
	fmt.Fprintf(o.w, "Players: %d added, %d skipped\n", r.PlayersAdded, r.PlayersSkipped)
	fmt.Fprintf(o.w, "Sessions: %d recorded\n", r.SessionsRecorded)
}
