package player

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mcoot/bakery2048/internal/dependencies/clock"
	"github.com/mcoot/bakery2048/internal/model"
	"github.com/mcoot/bakery2048/internal/storage"
)

// LeaderboardSize is how many players Statistics ranks
const LeaderboardSize = 5

// Service manages player registration, edits and session recording
type Service struct {
	store  *storage.Store[*model.Player]
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new PlayerService
func New(store *storage.Store[*model.Player], clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Load reads persisted players. Failures are logged and the service keeps
// working with whatever was already in memory.
func (s *Service) Load(ctx context.Context) (int, error) {
	count, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("could not load players", slog.String("error", err.Error()))
		return 0, err
	}
	return count, nil
}

// Register creates a player with a display name no other player holds
func (s *Service) Register(ctx context.Context, name, email string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}
	if _, ok := s.store.FindFirst(hasName(name)); ok {
		return nil, model.ErrPlayerExists
	}

	player := model.NewPlayer(name, strings.TrimSpace(email), s.clock.Now())
	s.store.Add(player)

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
	)
	return player, s.persist(ctx)
}

// List returns every player in storage order
func (s *Service) List() []*model.Player {
	return s.store.All()
}

// Get finds a player by exact name, ignoring case
func (s *Service) Get(name string) (*model.Player, error) {
	player, ok := s.store.FindFirst(hasName(name))
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

// Search returns players whose name contains term, ignoring case
func (s *Service) Search(term string) []*model.Player {
	term = strings.ToLower(strings.TrimSpace(term))
	return s.store.FindAll(func(p *model.Player) bool {
		return strings.Contains(strings.ToLower(p.Name), term)
	})
}

// RecordSession applies a completed game to the named player
func (s *Service) RecordSession(ctx context.Context, name string, session model.GameSession) (*model.Player, error) {
	return s.mutate(ctx, name, func(p *model.Player, now time.Time) {
		p.RecordGameSession(session, now)
		s.logger.Info("game session recorded",
			slog.String("player_id", string(p.ID)),
			slog.Int("score", session.FinalScore),
			slog.Int("best_tile", session.BestTile),
			slog.Bool("win", session.ReachedWin),
		)
	})
}

// UpdateEmail replaces a player's email
func (s *Service) UpdateEmail(ctx context.Context, name, email string) (*model.Player, error) {
	return s.mutate(ctx, name, func(p *model.Player, now time.Time) {
		p.SetEmail(strings.TrimSpace(email), now)
	})
}

// UpdateScore records a bare score as one more game played.
// Best tile, win streak and power-up counters are left alone.
func (s *Service) UpdateScore(ctx context.Context, name string, score int) (*model.Player, error) {
	return s.mutate(ctx, name, func(p *model.Player, now time.Time) {
		p.UpdateScore(score, now)
		p.IncrementGamesPlayed(now)
	})
}

// UpdateBestTile raises a player's best tile; lower values are ignored
func (s *Service) UpdateBestTile(ctx context.Context, name string, value int) (*model.Player, error) {
	return s.mutate(ctx, name, func(p *model.Player, now time.Time) {
		p.UpdateBestTile(value, now)
	})
}

// ResetCurrentGame clears a player's current score
func (s *Service) ResetCurrentGame(ctx context.Context, name string) (*model.Player, error) {
	return s.mutate(ctx, name, func(p *model.Player, now time.Time) {
		p.ResetCurrentGame(now)
	})
}

// UsePowerUp counts one power-up use outside a recorded session
func (s *Service) UsePowerUp(ctx context.Context, name string) (*model.Player, error) {
	return s.mutate(ctx, name, func(p *model.Player, now time.Time) {
		p.UsePowerUp(now)
	})
}

// SetLevel overrides a player's level
func (s *Service) SetLevel(ctx context.Context, name string, level int) (*model.Player, error) {
	return s.mutate(ctx, name, func(p *model.Player, now time.Time) {
		p.SetLevel(level, now)
	})
}

// AddPlayTime adds to a player's total play time
func (s *Service) AddPlayTime(ctx context.Context, name string, d time.Duration) (*model.Player, error) {
	return s.mutate(ctx, name, func(p *model.Player, now time.Time) {
		p.AddPlayTime(d, now)
	})
}

// SetFavoriteItem records a player's favorite item
func (s *Service) SetFavoriteItem(ctx context.Context, name, item string) (*model.Player, error) {
	return s.mutate(ctx, name, func(p *model.Player, now time.Time) {
		p.SetFavoriteItem(strings.TrimSpace(item), now)
	})
}

// ToggleActive flips a player between active and deactivated
func (s *Service) ToggleActive(ctx context.Context, name string) (*model.Player, error) {
	return s.mutate(ctx, name, func(p *model.Player, now time.Time) {
		p.ToggleActive(now)
	})
}

// Delete removes a player from storage for good
func (s *Service) Delete(ctx context.Context, name string) (*model.Player, error) {
	player, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	s.store.Remove(player)
	s.logger.Info("player deleted", slog.String("player_id", string(player.ID)))
	return player, s.persist(ctx)
}

// Leaderboard returns up to n players by highest score, best first.
// Ties keep storage order.
func (s *Service) Leaderboard(n int) []*model.Player {
	players := s.store.All()
	slices.SortStableFunc(players, func(a, b *model.Player) int {
		return cmp.Compare(b.HighestScore, a.HighestScore)
	})
	if n >= 0 && len(players) > n {
		players = players[:n]
	}
	return players
}

// Stats summarises every player
type Stats struct {
	TotalPlayers     int
	ActivePlayers    int
	InactivePlayers  int
	DormantPlayers   int // active but no game in the last 30 days
	AverageHighScore float64
	HighestScore     int
	TotalGamesPlayed int
	TopPlayer        *model.Player
	Leaderboard      []*model.Player
}

// Statistics aggregates every player. The zero Stats is returned when there are none.
func (s *Service) Statistics() Stats {
	players := s.store.All()
	if len(players) == 0 {
		return Stats{}
	}

	now := s.clock.Now()
	stats := Stats{TotalPlayers: len(players)}
	sumHigh := 0
	for _, p := range players {
		if p.IsActive {
			stats.ActivePlayers++
			if p.IsInactive(now) {
				stats.DormantPlayers++
			}
		} else {
			stats.InactivePlayers++
		}
		sumHigh += p.HighestScore
		stats.HighestScore = max(stats.HighestScore, p.HighestScore)
		stats.TotalGamesPlayed += p.GamesPlayed
	}
	stats.AverageHighScore = float64(sumHigh) / float64(len(players))
	stats.Leaderboard = s.Leaderboard(LeaderboardSize)
	stats.TopPlayer = stats.Leaderboard[0]
	return stats
}

func (s *Service) mutate(ctx context.Context, name string, apply func(p *model.Player, now time.Time)) (*model.Player, error) {
	player, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	apply(player, s.clock.Now())
	return player, s.persist(ctx)
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx); err != nil {
		s.logger.Warn("could not save players", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", model.ErrPersistFailed, err)
	}
	return nil
}

func hasName(name string) func(*model.Player) bool {
	name = strings.TrimSpace(name)
	return func(p *model.Player) bool {
		return strings.EqualFold(p.Name, name)
	}
}
