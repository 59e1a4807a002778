package ledger

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"belcit-backend/models"
)

// GenerateRef atomically bumps the "{refType}-{period}" counter and returns
// "{prefix}{period}-{zero-padded-seq}". The increment is an upsert, so two
// concurrent callers on the same counter name never see the same sequence.
func GenerateRef(tx *gorm.DB, refType, period, prefix string, pad int) (string, error) {
	if pad <= 0 {
		pad = 4
	}
	counterName := fmt.Sprintf("%s-%s", refType, period)

	counter := models.RefCounter{Name: counterName, Seq: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("seq + 1")}),
	}).Create(&counter).Error
	if err != nil {
		return "", err
	}

	// Read back inside the same transaction; the upsert holds the row lock.
	if err := tx.Where("name = ?", counterName).Take(&counter).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%s-%0*d", prefix, period, pad, counter.Seq), nil
}

// DatePart returns the current period in YYMMDD form, e.g. "250428".
func DatePart() string {
	return time.Now().Format("060102")
}
