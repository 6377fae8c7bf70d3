package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/mcoot/bakery2048/internal/config"
	"github.com/mcoot/bakery2048/internal/dependencies/clock"
	"github.com/mcoot/bakery2048/internal/dependencies/random"
	"github.com/mcoot/bakery2048/internal/model"
	"github.com/mcoot/bakery2048/internal/services/player"
	"github.com/mcoot/bakery2048/internal/services/powerup"
	"github.com/mcoot/bakery2048/internal/services/seed"
	"github.com/mcoot/bakery2048/internal/services/tile"
	"github.com/mcoot/bakery2048/internal/storage"
	"github.com/mcoot/bakery2048/internal/storage/file"
	"github.com/mcoot/bakery2048/internal/storage/memory"
	redisstorage "github.com/mcoot/bakery2048/internal/storage/redis"
)

// Entity kinds, also used as redis key suffixes
const (
	KindPlayer  = "player"
	KindTile    = "tile"
	KindPowerUp = "powerup"
)

// File names used by file storage inside the data directory
const (
	PlayersFile  = "players.json"
	TilesFile    = "tiles.json"
	PowerUpsFile = "powerups.json"
)

// App contains all wired application components
type App struct {
	// Stores
	Players  *storage.Store[*model.Player]
	Tiles    *storage.Store[*model.Tile]
	PowerUps *storage.Store[*model.PowerUp]

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	PlayerService  *player.Service
	TileService    *tile.Service
	PowerUpService *powerup.Service
	SeedService    *seed.Service

	closer io.Closer
}

// backends holds one storage backend per entity kind
type backends struct {
	players  storage.Backend
	tiles    storage.Backend
	powerUps storage.Backend
}

// New creates a new application with all dependencies wired.
// Nothing is loaded until Load is called.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var b backends
	var closer io.Closer

	switch cfg.Storage {
	case config.StorageFile:
		b = backends{
			players:  file.New(filepath.Join(cfg.DataDir, PlayersFile)),
			tiles:    file.New(filepath.Join(cfg.DataDir, TilesFile)),
			powerUps: file.New(filepath.Join(cfg.DataDir, PowerUpsFile)),
		}
	case config.StorageMemory:
		b = backends{
			players:  memory.New(KindPlayer),
			tiles:    memory.New(KindTile),
			powerUps: memory.New(KindPowerUp),
		}
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		if cfg.RedisPrefix != "" {
			redisCfg.KeyPrefix = cfg.RedisPrefix
		}
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		b = backends{
			players:  redisStore.Backend(KindPlayer),
			tiles:    redisStore.Backend(KindTile),
			powerUps: redisStore.Backend(KindPowerUp),
		}
		closer = redisStore
	default:
		return nil, fmt.Errorf("invalid storage %q: must be %s, %s or %s",
			cfg.Storage, config.StorageFile, config.StorageMemory, config.StorageRedis)
	}

	logger.Debug("storage configured",
		slog.String("storage", cfg.Storage),
		slog.String("players", b.players.Location()),
		slog.String("tiles", b.tiles.Location()),
		slog.String("powerups", b.powerUps.Location()),
	)

	app := newWithDependencies(b, clock.New(), random.New(), logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(b backends, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	players := storage.New[*model.Player](KindPlayer, b.players, logger)
	tiles := storage.New[*model.Tile](KindTile, b.tiles, logger)
	powerUps := storage.New[*model.PowerUp](KindPowerUp, b.powerUps, logger)

	playerService := player.New(players, clk, logger)
	tileService := tile.New(tiles, clk, logger)
	powerUpService := powerup.New(powerUps, clk, logger)
	seedService := seed.New(playerService, tileService, powerUpService, rnd, logger)

	return &App{
		Players:        players,
		Tiles:          tiles,
		PowerUps:       powerUps,
		Clock:          clk,
		Random:         rnd,
		Logger:         logger,
		PlayerService:  playerService,
		TileService:    tileService,
		PowerUpService: powerUpService,
		SeedService:    seedService,
	}
}

// Load reads every store. A failing store keeps its empty list and the
// others still load; all failures are joined into the returned error,
// each prefixed with its entity kind.
func (a *App) Load(ctx context.Context) error {
	var errs []error
	if _, err := a.PlayerService.Load(ctx); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", a.Players.Kind(), err))
	}
	if _, err := a.TileService.Load(ctx); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", a.Tiles.Kind(), err))
	}
	if _, err := a.PowerUpService.Load(ctx); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", a.PowerUps.Kind(), err))
	}
	return errors.Join(errs...)
}

// Close releases the storage connection, if any
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
