package model

import (
	"fmt"
	"time"
)

const (
	// WinTileValue is the tile a session must reach to count as a win
	WinTileValue = 2048

	// PointsPerLevel is the highest-score span covered by one level
	PointsPerLevel = 1000

	// InactiveAfterDays is how long a player may go without playing before being considered dormant
	InactiveAfterDays = 30
)

// Rank categories ordered from lowest to highest
const (
	RankKitchenHelper   = "Kitchen Helper"
	RankApprenticeBaker = "Apprentice Baker"
	RankBaker           = "Baker"
	RankPastryChef      = "Pastry Chef"
	RankHeadBaker       = "Head Baker"
	RankMasterBaker     = "Master Baker"
)

// rankThresholds is checked top-down, so a score equal to a threshold gets the higher tier
var rankThresholds = []struct {
	minScore int
	rank     string
}{
	{50000, RankMasterBaker},
	{20000, RankHeadBaker},
	{10000, RankPastryChef},
	{5000, RankBaker},
	{1000, RankApprenticeBaker},
}

// Player is a registered participant and their accumulated statistics
type Player struct {
	Record

	Name             string
	Email            string
	CurrentScore     int
	HighestScore     int
	BestTileAchieved int
	Level            int
	GamesPlayed      int
	AverageScore     float64 // running mean of recorded session scores
	LastPlayed       time.Time
	TotalPlayTime    time.Duration
	WinStreak        int
	TotalMoves       int
	PowerUpsUsed     int
	FavoriteItem     string
}

// GameSession is the outcome of one completed game
type GameSession struct {
	FinalScore   int
	BestTile     int
	Moves        int
	Duration     time.Duration
	PowerUpsUsed []string // names only; just the count is kept on the player
	ReachedWin   bool
}

// NewPlayer creates a level-1 player registered at now
func NewPlayer(name, email string, now time.Time) *Player {
	return &Player{
		Record:     NewRecord(now),
		Name:       name,
		Email:      email,
		Level:      1,
		LastPlayed: now,
	}
}

// IsWinningTile reports whether a best tile satisfies the win condition
func IsWinningTile(value int) bool {
	return value >= WinTileValue
}

// LevelForScore derives the level from a highest score
func LevelForScore(highestScore int) int {
	return highestScore/PointsPerLevel + 1
}

// RankForScore derives the rank category from a highest score
func RankForScore(highestScore int) string {
	for _, t := range rankThresholds {
		if highestScore >= t.minScore {
			return t.rank
		}
	}
	return RankKitchenHelper
}

// DateRegistered is when the player signed up
func (p *Player) DateRegistered() time.Time {
	return p.DateCreated
}

// RecordGameSession applies a completed game to every statistic at once.
// This is the only path that keeps all derived fields consistent.
func (p *Player) RecordGameSession(s GameSession, now time.Time) {
	p.applyScore(s.FinalScore)

	if s.BestTile > p.BestTileAchieved {
		p.BestTileAchieved = s.BestTile
	}

	p.GamesPlayed++
	p.LastPlayed = now

	p.TotalMoves += s.Moves
	p.TotalPlayTime += s.Duration

	p.foldCurrentScoreIntoAverage()

	if s.ReachedWin {
		p.WinStreak++
	} else {
		p.WinStreak = 0
	}

	p.PowerUpsUsed += len(s.PowerUpsUsed)
	p.Touch(now)
}

// UpdateScore sets the current score, raising the highest score and level if needed.
// The average is left alone until IncrementGamesPlayed counts the game.
func (p *Player) UpdateScore(score int, now time.Time) {
	p.applyScore(score)
	p.Touch(now)
}

// IncrementGamesPlayed counts the current score as a finished game
func (p *Player) IncrementGamesPlayed(now time.Time) {
	p.GamesPlayed++
	p.LastPlayed = now
	p.foldCurrentScoreIntoAverage()
	p.Touch(now)
}

func (p *Player) applyScore(score int) {
	p.CurrentScore = score
	if score > p.HighestScore {
		p.HighestScore = score
	}
	p.Level = LevelForScore(p.HighestScore)
}

// foldCurrentScoreIntoAverage assumes GamesPlayed already includes the current score
func (p *Player) foldCurrentScoreIntoAverage() {
	if p.GamesPlayed <= 0 {
		return
	}
	n := float64(p.GamesPlayed)
	p.AverageScore = (p.AverageScore*(n-1) + float64(p.CurrentScore)) / n
}

// IsHighScore reports whether score would beat the highest score
func (p *Player) IsHighScore(score int) bool {
	return score > p.HighestScore
}

// UpdateBestTile raises the best tile if value is higher
func (p *Player) UpdateBestTile(value int, now time.Time) {
	if value > p.BestTileAchieved {
		p.BestTileAchieved = value
		p.Touch(now)
	}
}

// SetLevel overrides the level. The next score update recomputes it.
func (p *Player) SetLevel(level int, now time.Time) {
	p.Level = level
	p.Touch(now)
}

// AddPlayTime adds to the cumulative play duration
func (p *Player) AddPlayTime(d time.Duration, now time.Time) {
	p.TotalPlayTime += d
	p.Touch(now)
}

// UsePowerUp counts a single power-up use
func (p *Player) UsePowerUp(now time.Time) {
	p.PowerUpsUsed++
	p.Touch(now)
}

// SetEmail replaces the contact email
func (p *Player) SetEmail(email string, now time.Time) {
	p.Email = email
	p.Touch(now)
}

// SetFavoriteItem records the player's favorite item name
func (p *Player) SetFavoriteItem(name string, now time.Time) {
	p.FavoriteItem = name
	p.Touch(now)
}

// ResetCurrentGame clears the current score ahead of a new game
func (p *Player) ResetCurrentGame(now time.Time) {
	p.CurrentScore = 0
	p.Touch(now)
}

// GetRankCategory returns the rank label for the highest score
func (p *Player) GetRankCategory() string {
	return RankForScore(p.HighestScore)
}

// GetEfficiency is the highest score per move made, or 0 before any moves
func (p *Player) GetEfficiency() float64 {
	if p.TotalMoves <= 0 {
		return 0
	}
	return float64(p.HighestScore) / float64(p.TotalMoves)
}

// DaysSinceRegistration counts whole days since registration
func (p *Player) DaysSinceRegistration(now time.Time) int {
	return wholeDays(now.Sub(p.DateCreated))
}

// DaysSinceLastPlayed counts whole days since the last recorded game
func (p *Player) DaysSinceLastPlayed(now time.Time) int {
	return wholeDays(now.Sub(p.LastPlayed))
}

// IsInactive reports whether the player has not played for over InactiveAfterDays
func (p *Player) IsInactive(now time.Time) bool {
	return p.DaysSinceLastPlayed(now) > InactiveAfterDays
}

// LeaderboardEntry is a one-line summary for leaderboards
func (p *Player) LeaderboardEntry() string {
	return fmt.Sprintf("%s - Level %d - Score: %d", p.Name, p.Level, p.HighestScore)
}

func wholeDays(d time.Duration) int {
	return int(d / (24 * time.Hour))
}
