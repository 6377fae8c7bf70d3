package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/bakery2048/internal/dependencies/random"
	"github.com/mcoot/bakery2048/internal/model"
	"github.com/mcoot/bakery2048/internal/services/player"
	"github.com/mcoot/bakery2048/internal/services/powerup"
	"github.com/mcoot/bakery2048/internal/services/tile"
)

const (
	// SuffixAlphabet is the character set for generated player name suffixes
	SuffixAlphabet = "0123456789"
	// SuffixLength is the length of generated player name suffixes
	SuffixLength = 4
	// MaxSessionsPerPlayer bounds the random sessions recorded per player
	MaxSessionsPerPlayer = 5
	// MaxSessionScore bounds generated final scores
	MaxSessionScore = 25000
	// MaxNameAttempts is how many suffixes are tried before a player is skipped
	MaxNameAttempts = 3
)

// DefaultTiles is the starter bakery catalog, one item per board value
var DefaultTiles = []tile.Input{
	{ItemName: "Flour", TileValue: 2, Icon: "🌾", Color: "#F5F5DC"},
	{ItemName: "Sugar", TileValue: 4, Icon: "🧂", Color: "#FFFAFA"},
	{ItemName: "Butter", TileValue: 8, Icon: "🧈", Color: "#FFF1A8"},
	{ItemName: "Egg", TileValue: 16, Icon: "🥚", Color: "#FFE4B5"},
	{ItemName: "Dough", TileValue: 32, Icon: "🫓", Color: "#DEB887"},
	{ItemName: "Cookie", TileValue: 64, Icon: "🍪", Color: "#D2691E"},
	{ItemName: "Cupcake", TileValue: 128, Icon: "🧁", Color: "#FFB6C1"},
	{ItemName: "Croissant", TileValue: 256, Icon: "🥐", Color: "#DAA520"},
	{ItemName: "Donut", TileValue: 512, Icon: "🍩", Color: "#FF69B4"},
	{ItemName: "Pie", TileValue: 1024, Icon: "🥧", Color: "#CD853F"},
	{ItemName: "Wedding Cake", TileValue: 2048, Icon: "🎂", Color: "#FFD700", IsSpecialItem: true},
}

// DefaultPowerUps is the starter power-up catalog
var DefaultPowerUps = []powerup.Input{
	{
		Name: "Double Score", Type: model.PowerUpScoreBoost, Description: "Doubles points earned",
		Duration: 3, Cost: 100, Cooldown: 5, EffectMultiplier: 2.0,
	},
	{
		Name: "Extra Time", Type: model.PowerUpTimeExtension, Description: "Adds time to the clock",
		Duration: 1, Cost: 75, Cooldown: 3, EffectMultiplier: 1.0,
	},
	{
		Name: "Undo Move", Type: model.PowerUpUndo, Description: "Takes back the last move",
		Duration: 1, Cost: 50, Cooldown: 3, EffectMultiplier: 1.0,
	},
	{
		Name: "Tile Swap", Type: model.PowerUpSwapTiles, Description: "Swaps two tiles on the board",
		Duration: 1, Cost: 150, Cooldown: 4, EffectMultiplier: 1.0,
	},
}

// playerNames is the pool random player names are drawn from
var playerNames = []string{
	"Baker", "Bun", "Crumb", "Drizzle", "Eclair", "Fondant",
	"Ganache", "Honey", "Icing", "Jam", "Knead", "Latte",
}

// Options controls how much data Generate creates
type Options struct {
	Players int
}

// Result reports what Generate created and skipped
type Result struct {
	TilesAdded       int
	TilesSkipped     int
	PowerUpsAdded    int
	PowerUpsSkipped  int
	PlayersAdded     int
	PlayersSkipped   int
	SessionsRecorded int
}

// Service fills the stores with demo data
type Service struct {
	players  *player.Service
	tiles    *tile.Service
	powerUps *powerup.Service
	random   random.Random
	logger   *slog.Logger
}

// New creates a new seed Service
func New(
	players *player.Service,
	tiles *tile.Service,
	powerUps *powerup.Service,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		players:  players,
		tiles:    tiles,
		powerUps: powerUps,
		random:   rnd,
		logger:   logger,
	}
}

// Generate adds the default catalogs and opts.Players random players with a few sessions each.
// Catalog entries that clash with active entries are skipped. A save failure stops generation.
func (s *Service) Generate(ctx context.Context, opts Options) (Result, error) {
	var result Result

	for _, in := range DefaultTiles {
		_, err := s.tiles.Add(ctx, in)
		switch {
		case errors.Is(err, model.ErrDuplicateTileName), errors.Is(err, model.ErrDuplicateTileValue):
			result.TilesSkipped++
		case err != nil:
			return result, fmt.Errorf("seed tile %q: %w", in.ItemName, err)
		default:
			result.TilesAdded++
		}
	}

	for _, in := range DefaultPowerUps {
		_, err := s.powerUps.Add(ctx, in)
		switch {
		case errors.Is(err, model.ErrDuplicatePowerUpName):
			result.PowerUpsSkipped++
		case err != nil:
			return result, fmt.Errorf("seed power-up %q: %w", in.Name, err)
		default:
			result.PowerUpsAdded++
		}
	}

	for range opts.Players {
		p, err := s.registerRandomPlayer(ctx)
		if err != nil {
			return result, err
		}
		if p == nil {
			result.PlayersSkipped++
			continue
		}
		result.PlayersAdded++

		sessions := s.random.Intn(MaxSessionsPerPlayer) + 1
		for range sessions {
			if err := s.recordRandomSession(ctx, p.Name); err != nil {
				return result, err
			}
			result.SessionsRecorded++
		}
	}

	s.logger.Info("seed data generated",
		slog.Int("tiles_added", result.TilesAdded),
		slog.Int("powerups_added", result.PowerUpsAdded),
		slog.Int("players_added", result.PlayersAdded),
		slog.Int("sessions", result.SessionsRecorded),
	)
	return result, nil
}

// registerRandomPlayer returns nil without error when every generated name was taken
func (s *Service) registerRandomPlayer(ctx context.Context) (*model.Player, error) {
	for range MaxNameAttempts {
		base := playerNames[s.random.Intn(len(playerNames))]
		name := base + s.random.String(SuffixLength, SuffixAlphabet)
		email := fmt.Sprintf("%s@bakery.example", name)

		p, err := s.players.Register(ctx, name, email)
		if errors.Is(err, model.ErrPlayerExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed player %q: %w", name, err)
		}
		return p, nil
	}
	return nil, nil
}

func (s *Service) recordRandomSession(ctx context.Context, name string) error {
	// Best tile is a power of two from 2 to 4096
	bestTile := 2 << s.random.Intn(12)
	session := model.GameSession{
		FinalScore: s.random.Intn(MaxSessionScore),
		BestTile:   bestTile,
		Moves:      s.random.Intn(500) + 10,
		Duration:   time.Duration(s.random.Intn(30)+1) * time.Minute,
		ReachedWin: model.IsWinningTile(bestTile),
	}

	for range s.random.Intn(3) {
		pu := DefaultPowerUps[s.random.Intn(len(DefaultPowerUps))]
		if _, err := s.powerUps.RecordUsage(ctx, pu.Name); err != nil && !errors.Is(err, model.ErrPowerUpNotFound) {
			return fmt.Errorf("seed power-up usage: %w", err)
		}
		session.PowerUpsUsed = append(session.PowerUpsUsed, pu.Name)
	}

	if _, err := s.players.RecordSession(ctx, name, session); err != nil {
		return fmt.Errorf("seed session for %q: %w", name, err)
	}
	return nil
}
