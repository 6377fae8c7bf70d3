package powerup

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/mcoot/bakery2048/internal/dependencies/clock"
	"github.com/mcoot/bakery2048/internal/model"
	"github.com/mcoot/bakery2048/internal/services/catalog"
	"github.com/mcoot/bakery2048/internal/storage"
)

// MostUsedSize is how many power-ups Statistics ranks by usage
const MostUsedSize = 5

// Input holds the fields of a new power-up
type Input struct {
	Name             string
	Type             model.PowerUpType
	Description      string
	Duration         int
	Cost             int
	Cooldown         int
	EffectMultiplier float64
	IconURL          string
	Locked           bool
}

// NewInput fills in the default duration, cooldown and multiplier
func NewInput(name string, typ model.PowerUpType, cost int) Input {
	return Input{
		Name:             name,
		Type:             typ,
		Duration:         model.DefaultPowerUpDuration,
		Cost:             cost,
		Cooldown:         model.DefaultPowerUpCooldown,
		EffectMultiplier: model.DefaultEffectMultiplier,
	}
}

// Service manages the power-up catalog
type Service struct {
	store  *storage.Store[*model.PowerUp]
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new PowerUpService
func New(store *storage.Store[*model.PowerUp], clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

var uniqueKeys = []catalog.Key[*model.PowerUp]{
	{
		Matches:  catalog.SameName(func(p *model.PowerUp) string { return p.Name }),
		Conflict: model.ErrDuplicatePowerUpName,
	},
}

// Load reads persisted power-ups, logging failures
func (s *Service) Load(ctx context.Context) (int, error) {
	count, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("could not load power-ups", slog.String("error", err.Error()))
		return 0, err
	}
	return count, nil
}

// Add validates and stores a new power-up
func (s *Service) Add(ctx context.Context, in Input) (*model.PowerUp, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, model.ErrEmptyName
	}
	if !in.Type.Valid() {
		return nil, model.ErrInvalidPowerUpType
	}
	if err := validate(in.Duration, in.Cost, in.Cooldown, in.EffectMultiplier); err != nil {
		return nil, err
	}

	p := model.NewPowerUp(in.Name, in.Type, in.Cost, s.clock.Now())
	p.Description = strings.TrimSpace(in.Description)
	p.Duration = in.Duration
	p.Cooldown = in.Cooldown
	p.EffectMultiplier = in.EffectMultiplier
	p.IconURL = strings.TrimSpace(in.IconURL)
	p.IsUnlocked = !in.Locked

	if err := catalog.Check(s.store.All(), p, uniqueKeys...); err != nil {
		return nil, err
	}

	s.store.Add(p)
	s.logger.Info("power-up added",
		slog.String("powerup_id", string(p.ID)),
		slog.String("name", p.Name),
		slog.String("type", string(p.Type)),
	)
	return p, s.persist(ctx)
}

func validate(duration, cost, cooldown int, multiplier float64) error {
	switch {
	case duration <= 0:
		return model.ErrInvalidDuration
	case cost < 0:
		return model.ErrInvalidCost
	case cooldown < 0:
		return model.ErrInvalidCooldown
	case multiplier < 0:
		return model.ErrInvalidMultiplier
	}
	return nil
}

// List returns active power-ups then inactive ones, each ordered by cost
func (s *Service) List() []*model.PowerUp {
	items := s.store.All()
	slices.SortStableFunc(items, func(a, b *model.PowerUp) int {
		if a.IsActive != b.IsActive {
			if a.IsActive {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Cost, b.Cost)
	})
	return items
}

// Search returns power-ups whose name, description or type contains term
func (s *Service) Search(term string) []*model.PowerUp {
	term = strings.ToLower(strings.TrimSpace(term))
	return s.store.FindAll(func(p *model.PowerUp) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(string(p.Type)), term)
	})
}

// Get finds a power-up by name ignoring case, preferring an active one
func (s *Service) Get(name string) (*model.PowerUp, error) {
	name = strings.TrimSpace(name)
	matches := func(p *model.PowerUp) bool { return strings.EqualFold(p.Name, name) }
	if p, ok := s.store.FindFirst(func(p *model.PowerUp) bool { return p.IsActive && matches(p) }); ok {
		return p, nil
	}
	if p, ok := s.store.FindFirst(matches); ok {
		return p, nil
	}
	return nil, model.ErrPowerUpNotFound
}

// Rename changes a power-up's name, keeping active names unique
func (s *Service) Rename(ctx context.Context, name, newName string) (*model.PowerUp, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, model.ErrEmptyName
	}
	return s.edit(ctx, name, func(p *model.PowerUp) { p.Name = newName })
}

// SetType changes what the power-up does
func (s *Service) SetType(ctx context.Context, name string, typ model.PowerUpType) (*model.PowerUp, error) {
	if !typ.Valid() {
		return nil, model.ErrInvalidPowerUpType
	}
	return s.edit(ctx, name, func(p *model.PowerUp) { p.Type = typ })
}

// SetDescription replaces the description
func (s *Service) SetDescription(ctx context.Context, name, description string) (*model.PowerUp, error) {
	return s.edit(ctx, name, func(p *model.PowerUp) { p.Description = strings.TrimSpace(description) })
}

// SetCost changes the price in points
func (s *Service) SetCost(ctx context.Context, name string, cost int) (*model.PowerUp, error) {
	if cost < 0 {
		return nil, model.ErrInvalidCost
	}
	return s.edit(ctx, name, func(p *model.PowerUp) { p.Cost = cost })
}

// SetDuration changes how many moves the effect lasts
func (s *Service) SetDuration(ctx context.Context, name string, duration int) (*model.PowerUp, error) {
	if duration <= 0 {
		return nil, model.ErrInvalidDuration
	}
	return s.edit(ctx, name, func(p *model.PowerUp) { p.Duration = duration })
}

// SetCooldown changes how many moves must pass between uses
func (s *Service) SetCooldown(ctx context.Context, name string, cooldown int) (*model.PowerUp, error) {
	if cooldown < 0 {
		return nil, model.ErrInvalidCooldown
	}
	return s.edit(ctx, name, func(p *model.PowerUp) { p.Cooldown = cooldown })
}

// SetMultiplier changes the effect strength
func (s *Service) SetMultiplier(ctx context.Context, name string, multiplier float64) (*model.PowerUp, error) {
	if multiplier < 0 {
		return nil, model.ErrInvalidMultiplier
	}
	return s.edit(ctx, name, func(p *model.PowerUp) { p.EffectMultiplier = multiplier })
}

// SetIconURL changes the icon reference
func (s *Service) SetIconURL(ctx context.Context, name, url string) (*model.PowerUp, error) {
	return s.edit(ctx, name, func(p *model.PowerUp) { p.IconURL = strings.TrimSpace(url) })
}

// ToggleUnlocked flips whether players can buy the power-up
func (s *Service) ToggleUnlocked(ctx context.Context, name string) (*model.PowerUp, error) {
	return s.edit(ctx, name, func(p *model.PowerUp) { p.IsUnlocked = !p.IsUnlocked })
}

// Patch lists the changes Update makes. Nil fields are left alone.
type Patch struct {
	Name             *string
	Type             *model.PowerUpType
	Description      *string
	Duration         *int
	Cost             *int
	Cooldown         *int
	EffectMultiplier *float64
	IconURL          *string
	ToggleUnlocked   bool
	ToggleActive     bool // applied after the other changes, without a uniqueness check
}

func (pt Patch) validate() error {
	if pt.Name != nil && strings.TrimSpace(*pt.Name) == "" {
		return model.ErrEmptyName
	}
	if pt.Type != nil && !pt.Type.Valid() {
		return model.ErrInvalidPowerUpType
	}
	duration, cost, cooldown, multiplier := 1, 0, 0, 0.0
	if pt.Duration != nil {
		duration = *pt.Duration
	}
	if pt.Cost != nil {
		cost = *pt.Cost
	}
	if pt.Cooldown != nil {
		cooldown = *pt.Cooldown
	}
	if pt.EffectMultiplier != nil {
		multiplier = *pt.EffectMultiplier
	}
	return validate(duration, cost, cooldown, multiplier)
}

// Update applies several changes to one power-up and saves once.
// Either every field change is applied or none is.
func (s *Service) Update(ctx context.Context, name string, pt Patch) (*model.PowerUp, error) {
	if err := pt.validate(); err != nil {
		return nil, err
	}

	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}

	err = s.apply(p, func(p *model.PowerUp) {
		if pt.Name != nil {
			p.Name = strings.TrimSpace(*pt.Name)
		}
		if pt.Type != nil {
			p.Type = *pt.Type
		}
		if pt.Description != nil {
			p.Description = strings.TrimSpace(*pt.Description)
		}
		if pt.Duration != nil {
			p.Duration = *pt.Duration
		}
		if pt.Cost != nil {
			p.Cost = *pt.Cost
		}
		if pt.Cooldown != nil {
			p.Cooldown = *pt.Cooldown
		}
		if pt.EffectMultiplier != nil {
			p.EffectMultiplier = *pt.EffectMultiplier
		}
		if pt.IconURL != nil {
			p.IconURL = strings.TrimSpace(*pt.IconURL)
		}
		if pt.ToggleUnlocked {
			p.IsUnlocked = !p.IsUnlocked
		}
	})
	if err != nil {
		return nil, err
	}
	if pt.ToggleActive {
		p.ToggleActive(s.clock.Now())
	}

	s.logger.Info("power-up updated", slog.String("powerup_id", string(p.ID)))
	return p, s.persist(ctx)
}

// RecordUsage counts one use of the named power-up
func (s *Service) RecordUsage(ctx context.Context, name string) (*model.PowerUp, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	p.RecordUsage(s.clock.Now())
	s.logger.Debug("power-up used", slog.String("powerup_id", string(p.ID)), slog.Int("usage_count", p.UsageCount))
	return p, s.persist(ctx)
}

// ToggleActive retires or restores a power-up. Restoring does not re-check uniqueness.
func (s *Service) ToggleActive(ctx context.Context, name string) (*model.PowerUp, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	p.ToggleActive(s.clock.Now())
	return p, s.persist(ctx)
}

// Delete removes a power-up from storage for good
func (s *Service) Delete(ctx context.Context, name string) (*model.PowerUp, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	s.store.Remove(p)
	s.logger.Info("power-up deleted", slog.String("powerup_id", string(p.ID)))
	return p, s.persist(ctx)
}

// TypeCount is the number of power-ups of one type
type TypeCount struct {
	Type  model.PowerUpType
	Count int
}

// Stats summarises the catalog. Cost and usage totals cover active power-ups only;
// the type breakdown and most-used ranking include retired ones.
type Stats struct {
	TotalPowerUps    int
	ActivePowerUps   int
	UnlockedPowerUps int
	AverageCost      float64
	MinCost          int
	MaxCost          int
	TotalUsage       int
	ByType           []TypeCount // most common first
	MostUsed         []*model.PowerUp
}

// Statistics aggregates the catalog. The zero Stats is returned when it is empty.
func (s *Service) Statistics() Stats {
	items := s.store.All()
	if len(items) == 0 {
		return Stats{}
	}
	stats := Stats{TotalPowerUps: len(items)}

	var active []*model.PowerUp
	counts := make(map[model.PowerUpType]int)
	sum := 0
	for _, p := range items {
		if p.IsUnlocked {
			stats.UnlockedPowerUps++
		}
		counts[p.Type]++
		if !p.IsActive {
			continue
		}
		if len(active) == 0 || p.Cost < stats.MinCost {
			stats.MinCost = p.Cost
		}
		stats.MaxCost = max(stats.MaxCost, p.Cost)
		sum += p.Cost
		stats.TotalUsage += p.UsageCount
		active = append(active, p)
	}
	stats.ActivePowerUps = len(active)
	if len(active) > 0 {
		stats.AverageCost = float64(sum) / float64(len(active))
	}

	for _, t := range model.PowerUpTypes {
		if counts[t] > 0 {
			stats.ByType = append(stats.ByType, TypeCount{Type: t, Count: counts[t]})
		}
	}
	slices.SortStableFunc(stats.ByType, func(a, b TypeCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	used := slices.DeleteFunc(items, func(p *model.PowerUp) bool { return p.UsageCount == 0 })
	slices.SortStableFunc(used, func(a, b *model.PowerUp) int {
		return cmp.Compare(b.UsageCount, a.UsageCount)
	})
	if len(used) > MostUsedSize {
		used = used[:MostUsedSize]
	}
	stats.MostUsed = used
	return stats
}

// edit finds the power-up, applies change and persists
func (s *Service) edit(ctx context.Context, name string, change func(p *model.PowerUp)) (*model.PowerUp, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	if err := s.apply(p, change); err != nil {
		return nil, err
	}
	return p, s.persist(ctx)
}

// apply runs change on a probe copy first so a rejected edit leaves the power-up untouched
func (s *Service) apply(p *model.PowerUp, change func(p *model.PowerUp)) error {
	probe := *p
	change(&probe)
	if probe.IsActive {
		if err := catalog.Check(s.store.All(), &probe, uniqueKeys...); err != nil {
			return err
		}
	}

	change(p)
	p.Touch(s.clock.Now())
	return nil
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx); err != nil {
		s.logger.Warn("could not save power-ups", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", model.ErrPersistFailed, err)
	}
	return nil
}
