// services/score_ledger.go
package services

import (
	"log"

	"fitness-challenge-system/models"

	"gorm.io/gorm"
)

// ScoreLedger is the single primitive every reward path funnels through.
// Credits are plain atomic increments; debits clamp at zero in one UPDATE so
// concurrent score changes are never clobbered by a read-then-write.
type ScoreLedger struct {
	DB *gorm.DB
}

func NewScoreLedger(db *gorm.DB) *ScoreLedger {
	return &ScoreLedger{DB: db}
}

func (l *ScoreLedger) db(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return l.DB
}

// ApplyDelta adds delta (may be negative) to the user's score as a single
// atomic column update. Pass the enclosing transaction as tx, or nil to run
// standalone. A missing user is not an error: the caller already committed
// its own record, so we log the orphaned reference and move on.
func (l *ScoreLedger) ApplyDelta(tx *gorm.DB, userID string, delta int) error {
	res := l.db(tx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("score", gorm.Expr("score + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("⚠️ [LEDGER] score delta %+d references missing user %s, skipping", delta, userID)
	}
	return nil
}

// BoundedDebit subtracts amount from the user's score, flooring at zero.
// The clamp happens inside the UPDATE itself, so it stays correct under
// concurrent increments on the same row.
func (l *ScoreLedger) BoundedDebit(tx *gorm.DB, userID string, amount int) error {
	if amount <= 0 {
		return nil
	}
	res := l.db(tx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("score", gorm.Expr("CASE WHEN score > ? THEN score - ? ELSE 0 END", amount, amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("⚠️ [LEDGER] score debit %d references missing user %s, skipping", amount, userID)
	}
	return nil
}
