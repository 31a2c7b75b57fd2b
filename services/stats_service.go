// services/stats_service.go
package services

import (
	"errors"
	"math"

	"fitness-challenge-system/models"

	"gorm.io/gorm"
)

// StatsService is the pure read path: it derives summaries and rankings from
// whatever the participation and badge engines have persisted, and writes
// nothing.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

type UserStats struct {
	UserID              string             `json:"user_id"`
	Email               string             `json:"email"`
	FirstName           string             `json:"first_name,omitempty"`
	LastName            string             `json:"last_name,omitempty"`
	TotalScore          int                `json:"total_score"`
	TotalBadges         int64              `json:"total_badges"`
	ChallengesJoined    int64              `json:"challenges_joined"`
	ChallengesCompleted int64              `json:"challenges_completed"`
	ChallengesFailed    int64              `json:"challenges_failed"`
	ChallengesAbandoned int64              `json:"challenges_abandoned"`
	CompletionRate      int                `json:"completion_rate"`
	RecentBadges        []models.UserBadge `json:"recent_badges"`
	Rank                int64              `json:"rank"`
}

type ScoreLeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Score     int    `json:"score"`
}

type GlobalStats struct {
	TotalUsers           int64 `json:"totalUsers"`
	TotalBadges          int64 `json:"totalBadges"`
	TotalBadgesAwarded   int64 `json:"totalBadgesAwarded"`
	TotalChallenges      int64 `json:"totalChallenges"`
	TotalParticipations  int64 `json:"totalParticipations"`
	TotalCompleted       int64 `json:"totalCompleted"`
	GlobalCompletionRate int   `json:"globalCompletionRate"`
}

type statusCount struct {
	Status string
	Count  int64
}

func completionRate(completed, joined int64) int {
	if joined == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(joined) * 100))
}

// UserStats compiles the per-user summary: badge totals, the 5 most recent
// badges, participation counts broken out by status, completion rate, and
// score rank among active users (1-indexed, strictly-greater scores rank
// higher).
func (s *StatsService) UserStats(userID string) (*UserStats, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	stats := &UserStats{
		UserID:       user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		TotalScore:   user.Score,
		RecentBadges: []models.UserBadge{},
	}

	if err := s.DB.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalBadges).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Limit(5).
		Find(&stats.RecentBadges).Error; err != nil {
		return nil, err
	}

	var counts []statusCount
	if err := s.DB.Model(&models.ChallengeParticipant{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.ChallengesJoined += c.Count
		switch c.Status {
		case models.ParticipantStatusCompleted:
			stats.ChallengesCompleted = c.Count
		case models.ParticipantStatusFailed:
			stats.ChallengesFailed = c.Count
		case models.ParticipantStatusAbandoned:
			stats.ChallengesAbandoned = c.Count
		}
	}
	stats.CompletionRate = completionRate(stats.ChallengesCompleted, stats.ChallengesJoined)

	var higher int64
	if err := s.DB.Model(&models.User{}).
		Where("score > ? AND is_active = ?", user.Score, true).
		Count(&higher).Error; err != nil {
		return nil, err
	}
	stats.Rank = higher + 1

	return stats, nil
}

// ScoreLeaderboard lists active users by score, descending. Ties get
// distinct consecutive ranks by sort position.
func (s *StatsService) ScoreLeaderboard(limit int) ([]ScoreLeaderboardEntry, error) {
	limit = clampLimit(limit)

	var users []models.User
	if err := s.DB.Where("is_active = ?", true).
		Order("score DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]ScoreLeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = ScoreLeaderboardEntry{
			Rank:      i + 1,
			UserID:    u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Score:     u.Score,
		}
	}
	return entries, nil
}

// GlobalStats aggregates platform-wide totals.
func (s *StatsService) GlobalStats() (*GlobalStats, error) {
	out := &GlobalStats{}

	if err := s.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&out.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Badge{}).Count(&out.TotalBadges).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.UserBadge{}).Count(&out.TotalBadgesAwarded).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Challenge{}).Count(&out.TotalChallenges).Error; err != nil {
		return nil, err
	}

	var counts []statusCount
	if err := s.DB.Model(&models.ChallengeParticipant{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		out.TotalParticipations += c.Count
		if c.Status == models.ParticipantStatusCompleted {
			out.TotalCompleted = c.Count
		}
	}
	out.GlobalCompletionRate = completionRate(out.TotalCompleted, out.TotalParticipations)

	return out, nil
}
