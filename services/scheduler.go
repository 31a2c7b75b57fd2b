// services/scheduler.go
package services

import (
	"log"
	"time"

	"fitness-challenge-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartLifecycleScheduler moves challenges along their calendar: drafts whose
// start date arrived go active, active ones past their end date close out.
// Failing the participants left behind is the expiry worker's job; this only
// moves the challenge itself.
func (s *ChallengeService) StartLifecycleScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()

			var toActivate []models.Challenge
			err := s.DB.Where("status = ? AND start_date <= ? AND end_date > ?",
				models.ChallengeStatusDraft, now, now).
				Find(&toActivate).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, ch := range toActivate {
				ch.Status = models.ChallengeStatusActive
				if err := s.DB.Save(&ch).Error; err != nil {
					log.Printf("[Scheduler] Failed to activate challenge %s: %v", ch.ID, err)
				} else {
					log.Printf("✅ Auto-activated challenge: %s", ch.Name)
				}
			}

			var toClose []models.Challenge
			err = s.DB.Where("status = ? AND end_date <= ?", models.ChallengeStatusActive, now).
				Find(&toClose).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}
			for _, ch := range toClose {
				ch.Status = models.ChallengeStatusCompleted
				if err := s.DB.Save(&ch).Error; err != nil {
					log.Printf("[Scheduler] Failed to close challenge %s: %v", ch.ID, err)
				} else {
					log.Printf("✅ Auto-closed challenge: %s", ch.Name)
				}
			}
		}),
	)
}
