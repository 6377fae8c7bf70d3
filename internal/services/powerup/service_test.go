package powerup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bakery2048/internal/dependencies/mocks"
	"github.com/mcoot/bakery2048/internal/model"
	"github.com/mcoot/bakery2048/internal/storage"
	"github.com/mcoot/bakery2048/internal/storage/memory"
	"github.com/mcoot/bakery2048/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *mocks.MockClock
	backend *memory.Backend
	store   *storage.Store[*model.PowerUp]
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.backend = memory.New("powerups")
	s.store = storage.New[*model.PowerUp]("powerup", s.backend, testutil.NopLogger())
	s.service = New(s.store, s.clock, testutil.NopLogger())
}

func (s *ServiceSuite) add(name string, typ model.PowerUpType, cost int) *model.PowerUp {
	p, err := s.service.Add(s.ctx, NewInput(name, typ, cost))
	s.Require().NoError(err)
	return p
}

func (s *ServiceSuite) names(items []*model.PowerUp) []string {
	var out []string
	for _, p := range items {
		out = append(out, p.Name)
	}
	return out
}

// Adding

func (s *ServiceSuite) TestAddAppliesDefaults() {
	p := s.add("Double Score", model.PowerUpScoreBoost, 100)

	s.Equal(1, p.Duration)
	s.Equal(3, p.Cooldown)
	s.Equal(1.0, p.EffectMultiplier)
	s.True(p.IsUnlocked)
	s.True(p.IsActive)
	s.Equal(0, p.UsageCount)
	s.Contains(string(s.backend.Data()), `"Type": "ScoreBoost"`)
}

func (s *ServiceSuite) TestAddValidation() {
	cases := []struct {
		name   string
		modify func(in *Input)
		err    error
	}{
		{"empty name", func(in *Input) { in.Name = "  " }, model.ErrEmptyName},
		{"unknown type", func(in *Input) { in.Type = "Teleport" }, model.ErrInvalidPowerUpType},
		{"zero duration", func(in *Input) { in.Duration = 0 }, model.ErrInvalidDuration},
		{"negative cost", func(in *Input) { in.Cost = -1 }, model.ErrInvalidCost},
		{"negative cooldown", func(in *Input) { in.Cooldown = -1 }, model.ErrInvalidCooldown},
		{"negative multiplier", func(in *Input) { in.EffectMultiplier = -0.5 }, model.ErrInvalidMultiplier},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			in := NewInput("Undo", model.PowerUpUndo, 50)
			tc.modify(&in)
			_, err := s.service.Add(s.ctx, in)
			s.ErrorIs(err, tc.err)
		})
	}
	s.Empty(s.service.List())
}

func (s *ServiceSuite) TestZeroCostAndCooldownAllowed() {
	in := NewInput("Free Undo", model.PowerUpUndo, 0)
	in.Cooldown = 0
	_, err := s.service.Add(s.ctx, in)
	s.NoError(err)
}

func (s *ServiceSuite) TestDuplicateNameRejectedWhileActive() {
	s.add("Undo", model.PowerUpUndo, 50)

	_, err := s.service.Add(s.ctx, NewInput("UNDO", model.PowerUpSwapTiles, 10))
	s.ErrorIs(err, model.ErrDuplicatePowerUpName)

	_, err = s.service.ToggleActive(s.ctx, "Undo")
	s.Require().NoError(err)

	second, err := s.service.Add(s.ctx, NewInput("Undo", model.PowerUpUndo, 75))
	s.Require().NoError(err)

	got, err := s.service.Get("undo")
	s.Require().NoError(err)
	s.Same(second, got)
}

// Lookup

func (s *ServiceSuite) TestListOrdersActiveThenInactiveByCost() {
	s.add("Swap", model.PowerUpSwapTiles, 300)
	s.add("Undo", model.PowerUpUndo, 50)
	s.add("Double Score", model.PowerUpScoreBoost, 100)
	s.add("Extra Time", model.PowerUpTimeExtension, 10)
	_, err := s.service.ToggleActive(s.ctx, "Extra Time")
	s.Require().NoError(err)

	s.Equal([]string{"Undo", "Double Score", "Swap", "Extra Time"}, s.names(s.service.List()))
}

func (s *ServiceSuite) TestSearch() {
	s.add("Double Score", model.PowerUpScoreBoost, 100)
	s.add("Undo", model.PowerUpUndo, 50)
	_, err := s.service.SetDescription(s.ctx, "Undo", "Take back your last move")
	s.Require().NoError(err)

	s.Equal([]string{"Double Score"}, s.names(s.service.Search("boost")))
	s.Equal([]string{"Undo"}, s.names(s.service.Search("MOVE")))
	s.Empty(s.service.Search("teleport"))

	_, err = s.service.Get("Teleport")
	s.ErrorIs(err, model.ErrPowerUpNotFound)
}

// Editing

func (s *ServiceSuite) TestRenameConflictLeavesPowerUpUnchanged() {
	s.add("Undo", model.PowerUpUndo, 50)
	s.add("Swap", model.PowerUpSwapTiles, 300)

	_, err := s.service.Rename(s.ctx, "Swap", "undo")
	s.ErrorIs(err, model.ErrDuplicatePowerUpName)

	p, err := s.service.Get("Swap")
	s.Require().NoError(err)
	s.Equal("Swap", p.Name)
}

func (s *ServiceSuite) TestNumericEdits() {
	s.add("Double Score", model.PowerUpScoreBoost, 100)
	s.clock.Advance(time.Hour)

	p, err := s.service.SetCost(s.ctx, "Double Score", 250)
	s.Require().NoError(err)
	s.Equal(250, p.Cost)
	s.Equal(s.clock.Now(), p.DateModified)

	_, err = s.service.SetDuration(s.ctx, "Double Score", 0)
	s.ErrorIs(err, model.ErrInvalidDuration)
	_, err = s.service.SetCooldown(s.ctx, "Double Score", -2)
	s.ErrorIs(err, model.ErrInvalidCooldown)
	_, err = s.service.SetMultiplier(s.ctx, "Double Score", -1)
	s.ErrorIs(err, model.ErrInvalidMultiplier)
	_, err = s.service.SetCost(s.ctx, "Double Score", -1)
	s.ErrorIs(err, model.ErrInvalidCost)

	p, err = s.service.SetDuration(s.ctx, "Double Score", 5)
	s.Require().NoError(err)
	p, err = s.service.SetCooldown(s.ctx, "Double Score", 0)
	s.Require().NoError(err)
	p, err = s.service.SetMultiplier(s.ctx, "Double Score", 2.5)
	s.Require().NoError(err)

	s.Equal(5, p.Duration)
	s.Equal(0, p.Cooldown)
	s.Equal(2.5, p.EffectMultiplier)
}

func (s *ServiceSuite) TestOtherEdits() {
	s.add("Undo", model.PowerUpUndo, 50)

	p, err := s.service.SetType(s.ctx, "Undo", model.PowerUpSwapTiles)
	s.Require().NoError(err)
	s.Equal(model.PowerUpSwapTiles, p.Type)

	_, err = s.service.SetType(s.ctx, "Undo", "Teleport")
	s.ErrorIs(err, model.ErrInvalidPowerUpType)

	p, err = s.service.SetIconURL(s.ctx, "Undo", " https://example.com/undo.png ")
	s.Require().NoError(err)
	s.Equal("https://example.com/undo.png", p.IconURL)

	p, err = s.service.ToggleUnlocked(s.ctx, "Undo")
	s.Require().NoError(err)
	s.False(p.IsUnlocked)
}

func (s *ServiceSuite) TestRecordUsageAndReload() {
	s.add("Undo", model.PowerUpUndo, 50)
	for range 3 {
		_, err := s.service.RecordUsage(s.ctx, "Undo")
		s.Require().NoError(err)
	}

	reloaded := New(storage.New[*model.PowerUp]("powerup", s.backend, testutil.NopLogger()), s.clock, testutil.NopLogger())
	count, err := reloaded.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)

	p, err := reloaded.Get("Undo")
	s.Require().NoError(err)
	s.Equal(3, p.UsageCount)
}

func (s *ServiceSuite) TestDelete() {
	s.add("Undo", model.PowerUpUndo, 50)

	_, err := s.service.Delete(s.ctx, "undo")
	s.Require().NoError(err)
	s.Empty(s.service.List())

	_, err = s.service.Delete(s.ctx, "undo")
	s.ErrorIs(err, model.ErrPowerUpNotFound)
}

func (s *ServiceSuite) TestSaveFailureKeepsChange() {
	s.add("Undo", model.PowerUpUndo, 50)
	s.backend.FailWrites(errors.New("disk full"))

	p, err := s.service.RecordUsage(s.ctx, "Undo")
	s.ErrorIs(err, model.ErrPersistFailed)
	s.Equal(1, p.UsageCount)
}

// Statistics

func (s *ServiceSuite) TestStatistics() {
	s.add("Double Score", model.PowerUpScoreBoost, 100)
	s.add("Triple Score", model.PowerUpScoreBoost, 300)
	s.add("Undo", model.PowerUpUndo, 50)
	s.add("Extra Time", model.PowerUpTimeExtension, 10)
	s.add("Swap", model.PowerUpSwapTiles, 1000)

	use := func(name string, n int) {
		for range n {
			_, err := s.service.RecordUsage(s.ctx, name)
			s.Require().NoError(err)
		}
	}
	use("Undo", 4)
	use("Double Score", 2)
	use("Swap", 7)

	_, err := s.service.ToggleActive(s.ctx, "Swap")
	s.Require().NoError(err)
	_, err = s.service.ToggleUnlocked(s.ctx, "Extra Time")
	s.Require().NoError(err)

	stats := s.service.Statistics()
	s.Equal(5, stats.TotalPowerUps)
	s.Equal(4, stats.ActivePowerUps)
	s.Equal(4, stats.UnlockedPowerUps)
	s.Equal(10, stats.MinCost)
	s.Equal(300, stats.MaxCost)
	s.InDelta(115.0, stats.AverageCost, 1e-9)
	s.Equal(6, stats.TotalUsage)

	s.Require().NotEmpty(stats.ByType)
	s.Equal(TypeCount{Type: model.PowerUpScoreBoost, Count: 2}, stats.ByType[0])
	s.Len(stats.ByType, 4)

	s.Equal([]string{"Swap", "Undo", "Double Score"}, s.names(stats.MostUsed))
}

func (s *ServiceSuite) TestStatisticsKeepRetiredUsageAndTypes() {
	s.add("Undo", model.PowerUpUndo, 50)
	s.add("Boost", model.PowerUpScoreBoost, 100)
	for range 7 {
		_, err := s.service.RecordUsage(s.ctx, "Undo")
		s.Require().NoError(err)
	}
	_, err := s.service.ToggleActive(s.ctx, "Undo")
	s.Require().NoError(err)

	stats := s.service.Statistics()
	s.Equal(2, stats.TotalPowerUps)
	s.Equal(1, stats.ActivePowerUps)
	s.Equal(0, stats.TotalUsage)
	s.Equal(100, stats.MinCost)
	s.ElementsMatch([]TypeCount{
		{Type: model.PowerUpUndo, Count: 1},
		{Type: model.PowerUpScoreBoost, Count: 1},
	}, stats.ByType)

	s.Require().Len(stats.MostUsed, 1)
	s.Equal("Undo", stats.MostUsed[0].Name)
	s.Equal(7, stats.MostUsed[0].UsageCount)
}

func (s *ServiceSuite) TestStatisticsEmpty() {
	stats := s.service.Statistics()
	s.Equal(Stats{}, stats)
}

func (s *ServiceSuite) TestUpdateAppliesAllChangesAtOnce() {
	s.add("Undo", model.PowerUpUndo, 50)
	name, typ, cost, multiplier := "Rewind", model.PowerUpTimeExtension, 80, 1.5

	p, err := s.service.Update(s.ctx, "Undo", Patch{
		Name:             &name,
		Type:             &typ,
		Cost:             &cost,
		EffectMultiplier: &multiplier,
		ToggleUnlocked:   true,
		ToggleActive:     true,
	})
	s.Require().NoError(err)
	s.Equal("Rewind", p.Name)
	s.Equal(model.PowerUpTimeExtension, p.Type)
	s.Equal(80, p.Cost)
	s.Equal(1.5, p.EffectMultiplier)
	s.False(p.IsUnlocked)
	s.False(p.IsActive)
}

func (s *ServiceSuite) TestUpdateRejectsInvalidPatch() {
	s.add("Undo", model.PowerUpUndo, 50)
	zero, negative := 0, -1

	_, err := s.service.Update(s.ctx, "Undo", Patch{Duration: &zero})
	s.ErrorIs(err, model.ErrInvalidDuration)
	_, err = s.service.Update(s.ctx, "Undo", Patch{Cooldown: &negative})
	s.ErrorIs(err, model.ErrInvalidCooldown)

	s.add("Swap", model.PowerUpSwapTiles, 300)
	name := "swap"
	_, err = s.service.Update(s.ctx, "Undo", Patch{Name: &name, Cost: &zero})
	s.ErrorIs(err, model.ErrDuplicatePowerUpName)

	p, err := s.service.Get("Undo")
	s.Require().NoError(err)
	s.Equal(50, p.Cost)
}

func (s *ServiceSuite) TestAddLocked() {
	in := NewInput("Mystery Box", model.PowerUpSwapTiles, 500)
	in.Locked = true

	p, err := s.service.Add(s.ctx, in)
	s.Require().NoError(err)
	s.False(p.IsUnlocked)
}
