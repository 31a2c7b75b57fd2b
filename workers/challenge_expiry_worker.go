package workers

import (
	"context"
	"log"
	"time"

	"fitness-challenge-system/models"
	"fitness-challenge-system/services"

	"gorm.io/gorm"
)

// ChallengeExpiryWorker fails participants still marked joined after their
// challenge's end date has passed. It goes through the participant service's
// administrative SetStatus path so the usual transition rules apply; the
// state machine itself never derives the failed status.
type ChallengeExpiryWorker struct {
	DB           *gorm.DB
	Participants *services.ParticipantService
}

func NewChallengeExpiryWorker(db *gorm.DB, participants *services.ParticipantService) *ChallengeExpiryWorker {
	return &ChallengeExpiryWorker{DB: db, Participants: participants}
}

// Run polls until ctx is cancelled.
func (w *ChallengeExpiryWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Challenge expiry worker stopping...")
			return
		case <-ticker.C:
			if err := w.sweep(); err != nil {
				log.Printf("[EXPIRY] sweep failed: %v", err)
			}
		}
	}
}

func (w *ChallengeExpiryWorker) sweep() error {
	var ids []string
	err := w.DB.Model(&models.ChallengeParticipant{}).
		Joins("INNER JOIN challenges ON challenges.id = challenge_participants.challenge_id").
		Where("challenge_participants.status = ? AND challenges.end_date <= ? AND challenges.deleted_at IS NULL",
			models.ParticipantStatusJoined, time.Now()).
		Pluck("challenge_participants.id", &ids).Error
	if err != nil {
		return err
	}

	for _, id := range ids {
		if _, err := w.Participants.SetStatus(id, models.ParticipantStatusFailed); err != nil {
			log.Printf("[EXPIRY] failed to mark participant %s as failed: %v", id, err)
			continue
		}
		log.Printf("[EXPIRY] participant %s failed: challenge window closed", id)
	}
	return nil
}
