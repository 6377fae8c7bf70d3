package tile

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
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.backend = memory.New("tiles")
	store := storage.New[*model.Tile]("tile", s.backend, testutil.NopLogger())
	s.service = New(store, s.clock, testutil.NopLogger())
}

func (s *ServiceSuite) add(name string, value int) *model.Tile {
	t, err := s.service.Add(s.ctx, Input{ItemName: name, TileValue: value})
	s.Require().NoError(err)
	return t
}

// Adding

func (s *ServiceSuite) TestAddDefaultsAndPersists() {
	t, err := s.service.Add(s.ctx, Input{ItemName: " Cookie ", TileValue: 2, Icon: "🍪"})
	s.Require().NoError(err)

	s.Equal("Cookie", t.ItemName)
	s.Equal(model.DefaultTileColor, t.Color)
	s.True(t.IsActive)
	s.Contains(string(s.backend.Data()), `"ItemName": "Cookie"`)
}

func (s *ServiceSuite) TestAddValidation() {
	_, err := s.service.Add(s.ctx, Input{ItemName: "", TileValue: 2})
	s.ErrorIs(err, model.ErrEmptyName)

	_, err = s.service.Add(s.ctx, Input{ItemName: "Cookie", TileValue: 0})
	s.ErrorIs(err, model.ErrInvalidTileValue)

	_, err = s.service.Add(s.ctx, Input{ItemName: "Cookie", TileValue: 2, Color: "gold"})
	s.ErrorIs(err, model.ErrInvalidColor)

	s.Empty(s.service.List())
	s.Nil(s.backend.Data())
}

func (s *ServiceSuite) TestDuplicateNameRejectedWhileActive() {
	s.add("Cookie", 2)

	_, err := s.service.Add(s.ctx, Input{ItemName: "cookie", TileValue: 4})
	s.ErrorIs(err, model.ErrDuplicateTileName)
	s.Len(s.service.List(), 1)
}

func (s *ServiceSuite) TestDuplicateValueRejectedWhileActive() {
	s.add("Cookie", 2)

	_, err := s.service.Add(s.ctx, Input{ItemName: "Cupcake", TileValue: 2})
	s.ErrorIs(err, model.ErrDuplicateTileValue)
}

func (s *ServiceSuite) TestNameReusableAfterDeactivation() {
	s.add("Cookie", 2)
	_, err := s.service.ToggleActive(s.ctx, "Cookie")
	s.Require().NoError(err)

	second, err := s.service.Add(s.ctx, Input{ItemName: "Cookie", TileValue: 2})
	s.Require().NoError(err)
	s.Len(s.service.List(), 2)

	found, err := s.service.Find("cookie")
	s.Require().NoError(err)
	s.Same(second, found)
}

func (s *ServiceSuite) TestReactivationDoesNotRecheckUniqueness() {
	first := s.add("Cookie", 2)
	_, err := s.service.ToggleActive(s.ctx, "Cookie")
	s.Require().NoError(err)
	s.add("Cookie", 4)

	// The retired tile is only reachable by value now
	restored, err := s.service.ToggleActive(s.ctx, "2")
	s.Require().NoError(err)
	s.Same(first, restored)
	s.True(restored.IsActive)

	active := 0
	for _, t := range s.service.List() {
		if t.IsActive && t.ItemName == "Cookie" {
			active++
		}
	}
	s.Equal(2, active)
}

// Lookup

func (s *ServiceSuite) TestSearchByNameOrValue() {
	s.add("Cookie", 2)
	s.add("Cupcake", 4)
	s.add("Croissant", 8)

	s.Len(s.service.Search("c"), 3)
	s.Len(s.service.Search("CUP"), 1)
	found := s.service.Search("8")
	s.Len(found, 1)
	s.Equal("Croissant", found[0].ItemName)

	_, err := s.service.Find("Bagel")
	s.ErrorIs(err, model.ErrTileNotFound)
}

func (s *ServiceSuite) TestListOrdersActiveThenInactiveByValue() {
	s.add("Donut", 16)
	s.add("Cookie", 2)
	s.add("Cupcake", 4)
	s.add("Croissant", 8)
	_, err := s.service.ToggleActive(s.ctx, "Cupcake")
	s.Require().NoError(err)

	var names []string
	for _, t := range s.service.List() {
		names = append(names, t.ItemName)
	}
	s.Equal([]string{"Cookie", "Croissant", "Donut", "Cupcake"}, names)
}

// Editing

func (s *ServiceSuite) TestRenameChecksActiveNames() {
	s.add("Cookie", 2)
	s.add("Cupcake", 4)

	_, err := s.service.Rename(s.ctx, "Cupcake", "COOKIE")
	s.ErrorIs(err, model.ErrDuplicateTileName)

	t, err := s.service.Find("Cupcake")
	s.Require().NoError(err)
	s.Equal("Cupcake", t.ItemName)

	s.clock.Advance(time.Minute)
	t, err = s.service.Rename(s.ctx, "Cupcake", "Muffin")
	s.Require().NoError(err)
	s.Equal("Muffin", t.ItemName)
	s.Equal(s.clock.Now(), t.DateModified)

	// Renaming to its own name in another case is fine
	_, err = s.service.Rename(s.ctx, "Muffin", "MUFFIN")
	s.NoError(err)
}

func (s *ServiceSuite) TestSetValueChecksActiveValues() {
	s.add("Cookie", 2)
	s.add("Cupcake", 4)

	_, err := s.service.SetValue(s.ctx, "Cupcake", 2)
	s.ErrorIs(err, model.ErrDuplicateTileValue)

	_, err = s.service.SetValue(s.ctx, "Cupcake", -1)
	s.ErrorIs(err, model.ErrInvalidTileValue)

	t, err := s.service.SetValue(s.ctx, "Cupcake", 64)
	s.Require().NoError(err)
	s.Equal(64, t.TileValue)
}

func (s *ServiceSuite) TestInactiveTileMayTakeActiveName() {
	s.add("Cookie", 2)
	s.add("Cupcake", 4)
	_, err := s.service.ToggleActive(s.ctx, "Cupcake")
	s.Require().NoError(err)

	_, err = s.service.Rename(s.ctx, "Cupcake", "Cookie")
	s.NoError(err)
}

func (s *ServiceSuite) TestCosmeticEdits() {
	s.add("Cookie", 2)

	t, err := s.service.SetIcon(s.ctx, "Cookie", "🍪")
	s.Require().NoError(err)
	s.Equal("🍪", t.Icon)

	_, err = s.service.SetColor(s.ctx, "Cookie", "brown")
	s.ErrorIs(err, model.ErrInvalidColor)

	t, err = s.service.SetColor(s.ctx, "Cookie", "#8B4513")
	s.Require().NoError(err)
	s.Equal("#8B4513", t.Color)

	t, err = s.service.ToggleSpecial(s.ctx, "Cookie")
	s.Require().NoError(err)
	s.True(t.IsSpecialItem)
}

func (s *ServiceSuite) TestDelete() {
	s.add("Cookie", 2)

	_, err := s.service.Delete(s.ctx, "2")
	s.Require().NoError(err)
	s.Empty(s.service.List())
	s.Equal("[]", string(s.backend.Data()))

	_, err = s.service.Delete(s.ctx, "Cookie")
	s.ErrorIs(err, model.ErrTileNotFound)
}

func (s *ServiceSuite) TestSaveFailureKeepsEdit() {
	s.add("Cookie", 2)
	s.backend.FailWrites(errors.New("read-only"))

	t, err := s.service.SetIcon(s.ctx, "Cookie", "🍪")
	s.ErrorIs(err, model.ErrPersistFailed)
	s.Equal("🍪", t.Icon)
}

// Statistics

func (s *ServiceSuite) TestStatistics() {
	s.add("Cookie", 2)
	s.add("Cupcake", 4)
	s.add("Croissant", 8)
	s.add("Wedding Cake", 2048)
	_, err := s.service.ToggleSpecial(s.ctx, "Wedding Cake")
	s.Require().NoError(err)
	_, err = s.service.ToggleActive(s.ctx, "Croissant")
	s.Require().NoError(err)

	stats := s.service.Statistics()
	s.Equal(4, stats.TotalTiles)
	s.Equal(3, stats.ActiveTiles)
	s.Equal(1, stats.SpecialTiles)
	s.Equal(2, stats.MinValue)
	s.Equal(2048, stats.MaxValue)
	s.InDelta(float64(2+4+2048)/3, stats.AverageValue, 1e-9)
	s.Require().Len(stats.Specials, 1)
	s.Equal("Wedding Cake", stats.Specials[0].ItemName)
}

func (s *ServiceSuite) TestStatisticsEmpty() {
	stats := s.service.Statistics()
	s.Equal(0, stats.TotalTiles)
	s.Equal(0.0, stats.AverageValue)
}

func (s *ServiceSuite) TestUpdateAppliesAllChangesAtOnce() {
	s.add("Cookie", 2)
	name, value, color := "Biscuit", 8, "#D2691E"

	t, err := s.service.Update(s.ctx, "Cookie", Patch{
		ItemName:      &name,
		TileValue:     &value,
		Color:         &color,
		ToggleSpecial: true,
	})
	s.Require().NoError(err)
	s.Equal("Biscuit", t.ItemName)
	s.Equal(8, t.TileValue)
	s.Equal("#D2691E", t.Color)
	s.True(t.IsSpecialItem)
	s.Contains(string(s.backend.Data()), `"ItemName": "Biscuit"`)
}

func (s *ServiceSuite) TestUpdateConflictAppliesNothing() {
	s.add("Cookie", 2)
	s.add("Cupcake", 4)
	name, value := "Muffin", 2

	_, err := s.service.Update(s.ctx, "Cupcake", Patch{ItemName: &name, TileValue: &value, ToggleActive: true})
	s.ErrorIs(err, model.ErrDuplicateTileValue)

	t, err := s.service.Find("Cupcake")
	s.Require().NoError(err)
	s.Equal(4, t.TileValue)
	s.True(t.IsActive)
}

func (s *ServiceSuite) TestUpdateToggleActiveAfterRename() {
	s.add("Cookie", 2)
	name := "Old Cookie"

	t, err := s.service.Update(s.ctx, "Cookie", Patch{ItemName: &name, ToggleActive: true})
	s.Require().NoError(err)
	s.Equal("Old Cookie", t.ItemName)
	s.False(t.IsActive)
}

func (s *ServiceSuite) TestUpdateValidatesBeforeLookup() {
	empty, zero, bad := " ", 0, "red"

	_, err := s.service.Update(s.ctx, "Missing", Patch{ItemName: &empty})
	s.ErrorIs(err, model.ErrEmptyName)
	_, err = s.service.Update(s.ctx, "Missing", Patch{TileValue: &zero})
	s.ErrorIs(err, model.ErrInvalidTileValue)
	_, err = s.service.Update(s.ctx, "Missing", Patch{Color: &bad})
	s.ErrorIs(err, model.ErrInvalidColor)
	_, err = s.service.Update(s.ctx, "Missing", Patch{})
	s.ErrorIs(err, model.ErrTileNotFound)
}
