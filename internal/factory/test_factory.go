package factory

import (
	"context"
	"time"

	"github.com/mcoot/bakery2048/internal/dependencies/mocks"
	"github.com/mcoot/bakery2048/internal/storage/memory"
	"github.com/mcoot/bakery2048/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom

	// Backends for inspecting or breaking persistence
	PlayerBackend  *memory.Backend
	TileBackend    *memory.Backend
	PowerUpBackend *memory.Backend
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	playerBackend := memory.New(KindPlayer)
	tileBackend := memory.New(KindTile)
	powerUpBackend := memory.New(KindPowerUp)
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(backends{
		players:  playerBackend,
		tiles:    tileBackend,
		powerUps: powerUpBackend,
	}, mockClock, mockRandom, testutil.NopLogger())

	return &TestApp{
		App:            app,
		MockClock:      mockClock,
		MockRandom:     mockRandom,
		PlayerBackend:  playerBackend,
		TileBackend:    tileBackend,
		PowerUpBackend: powerUpBackend,
	}
}

// Reopen builds a fresh App over the same backends and loads it,
// simulating a restart of the program.
func (t *TestApp) Reopen() (*App, error) {
	app := newWithDependencies(backends{
		players:  t.PlayerBackend,
		tiles:    t.TileBackend,
		powerUps: t.PowerUpBackend,
	}, t.MockClock, t.MockRandom, testutil.NopLogger())
	return app, app.Load(context.Background())
}
