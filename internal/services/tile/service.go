package tile

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/mcoot/bakery2048/internal/dependencies/clock"
	"github.com/mcoot/bakery2048/internal/model"
	"github.com/mcoot/bakery2048/internal/services/catalog"
	"github.com/mcoot/bakery2048/internal/storage"
)

// Input holds the fields of a new tile
type Input struct {
	ItemName      string
	TileValue     int
	Icon          string
	Color         string // empty means model.DefaultTileColor
	IsSpecialItem bool
}

// Service manages the tile catalog
type Service struct {
	store  *storage.Store[*model.Tile]
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new TileService
func New(store *storage.Store[*model.Tile], clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// uniqueKeys are enforced among active tiles only
var uniqueKeys = []catalog.Key[*model.Tile]{
	{
		Matches:  catalog.SameName(func(t *model.Tile) string { return t.ItemName }),
		Conflict: model.ErrDuplicateTileName,
	},
	{
		Matches:  func(a, b *model.Tile) bool { return a.TileValue == b.TileValue },
		Conflict: model.ErrDuplicateTileValue,
	},
}

// Load reads persisted tiles, logging failures
func (s *Service) Load(ctx context.Context) (int, error) {
	count, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("could not load tiles", slog.String("error", err.Error()))
		return 0, err
	}
	return count, nil
}

// Add validates and stores a new tile
func (s *Service) Add(ctx context.Context, in Input) (*model.Tile, error) {
	in.ItemName = strings.TrimSpace(in.ItemName)
	if in.ItemName == "" {
		return nil, model.ErrEmptyName
	}
	if in.TileValue <= 0 {
		return nil, model.ErrInvalidTileValue
	}
	if in.Color == "" {
		in.Color = model.DefaultTileColor
	}
	if !model.IsValidColor(in.Color) {
		return nil, model.ErrInvalidColor
	}

	t := model.NewTile(in.ItemName, in.TileValue, s.clock.Now())
	t.Icon = in.Icon
	t.Color = in.Color
	t.IsSpecialItem = in.IsSpecialItem

	if err := catalog.Check(s.store.All(), t, uniqueKeys...); err != nil {
		return nil, err
	}

	s.store.Add(t)
	s.logger.Info("tile added",
		slog.String("tile_id", string(t.ID)),
		slog.String("name", t.ItemName),
		slog.Int("value", t.TileValue),
	)
	return t, s.persist(ctx)
}

// List returns active tiles then inactive tiles, each ordered by value
func (s *Service) List() []*model.Tile {
	tiles := s.store.All()
	slices.SortStableFunc(tiles, func(a, b *model.Tile) int {
		if a.IsActive != b.IsActive {
			if a.IsActive {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.TileValue, b.TileValue)
	})
	return tiles
}

// Search returns tiles whose name contains term or whose value equals it
func (s *Service) Search(term string) []*model.Tile {
	term = strings.TrimSpace(term)
	lower := strings.ToLower(term)
	return s.store.FindAll(func(t *model.Tile) bool {
		return strings.Contains(strings.ToLower(t.ItemName), lower) || strconv.Itoa(t.TileValue) == term
	})
}

// Find returns the tile named term (ignoring case) or valued term.
// An active tile is preferred when a retired one shares the key.
func (s *Service) Find(term string) (*model.Tile, error) {
	term = strings.TrimSpace(term)
	matches := func(t *model.Tile) bool {
		return strings.EqualFold(t.ItemName, term) || strconv.Itoa(t.TileValue) == term
	}
	if t, ok := s.store.FindFirst(func(t *model.Tile) bool { return t.IsActive && matches(t) }); ok {
		return t, nil
	}
	if t, ok := s.store.FindFirst(matches); ok {
		return t, nil
	}
	return nil, model.ErrTileNotFound
}

// Rename changes a tile's item name, keeping active names unique
func (s *Service) Rename(ctx context.Context, term, name string) (*model.Tile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}
	return s.edit(ctx, term, func(t *model.Tile) { t.ItemName = name })
}

// SetValue changes a tile's value, keeping active values unique
func (s *Service) SetValue(ctx context.Context, term string, value int) (*model.Tile, error) {
	if value <= 0 {
		return nil, model.ErrInvalidTileValue
	}
	return s.edit(ctx, term, func(t *model.Tile) { t.TileValue = value })
}

// SetIcon changes a tile's icon
func (s *Service) SetIcon(ctx context.Context, term, icon string) (*model.Tile, error) {
	return s.edit(ctx, term, func(t *model.Tile) { t.Icon = icon })
}

// SetColor changes a tile's hex color
func (s *Service) SetColor(ctx context.Context, term, color string) (*model.Tile, error) {
	if !model.IsValidColor(color) {
		return nil, model.ErrInvalidColor
	}
	return s.edit(ctx, term, func(t *model.Tile) { t.Color = color })
}

// ToggleSpecial flips the special-item flag
func (s *Service) ToggleSpecial(ctx context.Context, term string) (*model.Tile, error) {
	return s.edit(ctx, term, func(t *model.Tile) { t.IsSpecialItem = !t.IsSpecialItem })
}

// Patch lists the changes Update makes. Nil fields are left alone.
type Patch struct {
	ItemName      *string
	TileValue     *int
	Icon          *string
	Color         *string
	ToggleSpecial bool
	ToggleActive  bool // applied after the other changes, without a uniqueness check
}

// Update applies several changes to one tile and saves once.
// Either every field change is applied or none is.
func (s *Service) Update(ctx context.Context, term string, p Patch) (*model.Tile, error) {
	if p.ItemName != nil {
		name := strings.TrimSpace(*p.ItemName)
		if name == "" {
			return nil, model.ErrEmptyName
		}
		p.ItemName = &name
	}
	if p.TileValue != nil && *p.TileValue <= 0 {
		return nil, model.ErrInvalidTileValue
	}
	if p.Color != nil && !model.IsValidColor(*p.Color) {
		return nil, model.ErrInvalidColor
	}

	t, err := s.Find(term)
	if err != nil {
		return nil, err
	}

	err = s.apply(t, func(t *model.Tile) {
		if p.ItemName != nil {
			t.ItemName = *p.ItemName
		}
		if p.TileValue != nil {
			t.TileValue = *p.TileValue
		}
		if p.Icon != nil {
			t.Icon = *p.Icon
		}
		if p.Color != nil {
			t.Color = *p.Color
		}
		if p.ToggleSpecial {
			t.IsSpecialItem = !t.IsSpecialItem
		}
	})
	if err != nil {
		return nil, err
	}
	if p.ToggleActive {
		t.ToggleActive(s.clock.Now())
	}

	s.logger.Info("tile updated", slog.String("tile_id", string(t.ID)))
	return t, s.persist(ctx)
}

// ToggleActive retires or restores a tile. Restoring does not re-check uniqueness.
func (s *Service) ToggleActive(ctx context.Context, term string) (*model.Tile, error) {
	t, err := s.Find(term)
	if err != nil {
		return nil, err
	}
	t.ToggleActive(s.clock.Now())
	return t, s.persist(ctx)
}

// Delete removes a tile from storage for good
func (s *Service) Delete(ctx context.Context, term string) (*model.Tile, error) {
	t, err := s.Find(term)
	if err != nil {
		return nil, err
	}
	s.store.Remove(t)
	s.logger.Info("tile deleted", slog.String("tile_id", string(t.ID)))
	return t, s.persist(ctx)
}

// Stats summarises the catalog
type Stats struct {
	TotalTiles   int
	ActiveTiles  int
	SpecialTiles int
	MinValue     int     // over active tiles
	MaxValue     int     // over active tiles
	AverageValue float64 // over active tiles
	Specials     []*model.Tile
}

// Statistics aggregates the catalog
func (s *Service) Statistics() Stats {
	tiles := s.store.All()
	stats := Stats{TotalTiles: len(tiles)}
	sum := 0
	for _, t := range tiles {
		if t.IsSpecialItem {
			stats.SpecialTiles++
			stats.Specials = append(stats.Specials, t)
		}
		if !t.IsActive {
			continue
		}
		if stats.ActiveTiles == 0 || t.TileValue < stats.MinValue {
			stats.MinValue = t.TileValue
		}
		stats.MaxValue = max(stats.MaxValue, t.TileValue)
		sum += t.TileValue
		stats.ActiveTiles++
	}
	if stats.ActiveTiles > 0 {
		stats.AverageValue = float64(sum) / float64(stats.ActiveTiles)
	}
	return stats
}

// edit finds the tile, applies change and persists
func (s *Service) edit(ctx context.Context, term string, change func(t *model.Tile)) (*model.Tile, error) {
	t, err := s.Find(term)
	if err != nil {
		return nil, err
	}
	if err := s.apply(t, change); err != nil {
		return nil, err
	}
	return t, s.persist(ctx)
}

// apply runs change on a probe copy first so a rejected edit leaves the tile untouched
func (s *Service) apply(t *model.Tile, change func(t *model.Tile)) error {
	probe := *t
	change(&probe)
	if probe.IsActive {
		if err := catalog.Check(s.store.All(), &probe, uniqueKeys...); err != nil {
			return err
		}
	}

	change(t)
	t.Touch(s.clock.Now())
	return nil
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx); err != nil {
		s.logger.Warn("could not save tiles", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", model.ErrPersistFailed, err)
	}
	return nil
}
