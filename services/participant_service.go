// services/participant_service.go
package services

import (
	"errors"
	"log"
	"math"
	"time"

	"fitness-challenge-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrChallengeNotFound        = errors.New("challenge not found")
	ErrParticipantNotFound      = errors.New("participant not found")
	ErrAlreadyParticipating     = errors.New("user is already participating in this challenge")
	ErrParticipantFinished      = errors.New("participant is no longer active in this challenge")
	ErrInvalidTargetValue       = errors.New("target value must be greater than zero")
	ErrInvalidProgressValue     = errors.New("progress value must be zero or greater")
	ErrInvalidParticipantStatus = errors.New("invalid participant status")
)

// ParticipantService owns the lifecycle of a user's attempt at a challenge:
// join, progress reports, administrative status changes, abandon. Every
// mutation of a participant runs in one transaction with the row locked, and
// the completion reward is guarded by a conditional update on
// score_earned = 0, so two concurrent reports reaching 100% credit the user
// exactly once.
type ParticipantService struct {
	DB     *gorm.DB
	Ledger *ScoreLedger
}

func NewParticipantService(db *gorm.DB, ledger *ScoreLedger) *ParticipantService {
	return &ParticipantService{DB: db, Ledger: ledger}
}

// lockForUpdate takes a row lock on engines that support SELECT ... FOR
// UPDATE. SQLite serializes writers on its own and rejects the syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// computeProgress derives the percent-complete from the raw progress metric.
func computeProgress(progressValue, targetValue float64) int {
	if targetValue <= 0 {
		return 0
	}
	p := int(math.Round(progressValue / targetValue * 100))
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

// Join enrolls a user in a challenge. TargetValue is fixed here and never
// changes afterwards.
func (s *ParticipantService) Join(challengeID, userID string, targetValue float64) (*models.ChallengeParticipant, error) {
	if targetValue <= 0 {
		return nil, ErrInvalidTargetValue
	}

	var challenge models.Challenge
	if err := s.DB.First(&challenge, "id = ?", challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	var existing int64
	if err := s.DB.Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyParticipating
	}

	participant := &models.ChallengeParticipant{
		ID:          uuid.NewString(),
		ChallengeID: challengeID,
		UserID:      userID,
		Status:      models.ParticipantStatusJoined,
		TargetValue: targetValue,
		JoinedAt:    time.Now(),
	}
	if err := s.DB.Create(participant).Error; err != nil {
		// The composite unique index catches the race the pre-check misses.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyParticipating
		}
		return nil, err
	}
	return participant, nil
}

// ReportProgress recomputes the derived progress percent and, on reaching
// 100%, completes the participant and credits the challenge reward. Terminal
// participants reject progress reports: a late report must not silently
// drag an abandoned attempt back toward completed.
func (s *ParticipantService) ReportProgress(participantID string, progressValue float64) (*models.ChallengeParticipant, error) {
	if progressValue < 0 {
		return nil, ErrInvalidProgressValue
	}

	var participant models.ChallengeParticipant
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&participant, "id = ?", participantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}
		if participant.Status != models.ParticipantStatusJoined {
			return ErrParticipantFinished
		}

		progress := computeProgress(progressValue, participant.TargetValue)
		if progress < 100 || participant.ScoreEarned != 0 {
			if err := tx.Model(&models.ChallengeParticipant{}).
				Where("id = ?", participant.ID).
				Updates(map[string]interface{}{
					"progress_value": progressValue,
					"progress":       progress,
				}).Error; err != nil {
				return err
			}
			participant.ProgressValue = progressValue
			participant.Progress = progress
			return nil
		}

		return s.completeAndReward(tx, &participant, progressValue, progress)
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// completeAndReward flips the participant to completed and applies the
// one-time reward. The status write is conditional on score_earned = 0: if
// another writer got there first, only the progress fields are refreshed.
// Runs inside the caller's transaction.
func (s *ParticipantService) completeAndReward(tx *gorm.DB, participant *models.ChallengeParticipant, progressValue float64, progress int) error {
	reward := 0
	var challenge models.Challenge
	if err := tx.First(&challenge, "id = ?", participant.ChallengeID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// Challenge deleted under us: complete without a reward.
		log.Printf("⚠️ [PARTICIPANT] challenge %s missing at completion of participant %s, no reward applied", participant.ChallengeID, participant.ID)
	} else {
		reward = challenge.Rewards.ScorePoints
	}

	now := time.Now()
	res := tx.Model(&models.ChallengeParticipant{}).
		Where("id = ? AND score_earned = 0", participant.ID).
		Updates(map[string]interface{}{
			"progress_value": progressValue,
			"progress":       progress,
			"status":         models.ParticipantStatusCompleted,
			"completed_at":   now,
			"score_earned":   reward,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race: a concurrent writer already credited this
		// participant. Refresh the progress fields only.
		if err := tx.Model(&models.ChallengeParticipant{}).
			Where("id = ?", participant.ID).
			Updates(map[string]interface{}{
				"progress_value": progressValue,
				"progress":       progress,
			}).Error; err != nil {
			return err
		}
		return tx.First(participant, "id = ?", participant.ID).Error
	}

	participant.ProgressValue = progressValue
	participant.Progress = progress
	participant.Status = models.ParticipantStatusCompleted
	participant.CompletedAt = &now
	participant.ScoreEarned = reward

	if reward > 0 {
		if err := s.Ledger.ApplyDelta(tx, participant.UserID, reward); err != nil {
			return err
		}
	}
	return nil
}

// SetStatus is the administrative transition: it may move a participant to
// any of the four statuses. Transitioning to completed behaves like a
// completion report, with the same one-time reward guard. Leaving completed performs
// no claw-back.
func (s *ParticipantService) SetStatus(participantID, status string) (*models.ChallengeParticipant, error) {
	if !models.ValidParticipantStatus(status) {
		return nil, ErrInvalidParticipantStatus
	}

	var participant models.ChallengeParticipant
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&participant, "id = ?", participantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}

		if status == models.ParticipantStatusCompleted &&
			participant.Status != models.ParticipantStatusCompleted &&
			participant.ScoreEarned == 0 {
			return s.completeAndReward(tx, &participant, participant.ProgressValue, participant.Progress)
		}

		updates := map[string]interface{}{"status": status}
		if status == models.ParticipantStatusCompleted {
			now := time.Now()
			updates["completed_at"] = now
			participant.CompletedAt = &now
		}
		if err := tx.Model(&models.ChallengeParticipant{}).
			Where("id = ?", participant.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		participant.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// Abandon forces the participant to abandoned regardless of current state.
// No reward side effects in either direction.
func (s *ParticipantService) Abandon(participantID string) (*models.ChallengeParticipant, error) {
	var participant models.ChallengeParticipant
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&participant, "id = ?", participantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}
			return err
		}
		if err := tx.Model(&models.ChallengeParticipant{}).
			Where("id = ?", participant.ID).
			Update("status", models.ParticipantStatusAbandoned).Error; err != nil {
			return err
		}
		participant.Status = models.ParticipantStatusAbandoned
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// GetByID returns one participant with its challenge and user loaded.
func (s *ParticipantService) GetByID(participantID string) (*models.ChallengeParticipant, error) {
	var participant models.ChallengeParticipant
	err := s.DB.Preload("Challenge").Preload("User").
		First(&participant, "id = ?", participantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

func (s *ParticipantService) GetAll() ([]models.ChallengeParticipant, error) {
	var participants []models.ChallengeParticipant
	err := s.DB.Preload("Challenge").Preload("User").Find(&participants).Error
	return participants, err
}

func (s *ParticipantService) GetByChallengeID(challengeID string) ([]models.ChallengeParticipant, error) {
	var participants []models.ChallengeParticipant
	err := s.DB.Preload("Challenge").Preload("User").
		Where("challenge_id = ?", challengeID).
		Find(&participants).Error
	return participants, err
}

func (s *ParticipantService) GetByUserID(userID string) ([]models.ChallengeParticipant, error) {
	var participants []models.ChallengeParticipant
	err := s.DB.Preload("Challenge").Preload("User").
		Where("user_id = ?", userID).
		Find(&participants).Error
	return participants, err
}

// Delete removes a participant record entirely (hard delete, so the user can
// re-join later). Administrative only; the state machine itself never
// deletes.
func (s *ParticipantService) Delete(participantID string) error {
	res := s.DB.Unscoped().Delete(&models.ChallengeParticipant{}, "id = ?", participantID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}
