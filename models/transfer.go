package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transfer moves money between two control accounts via an offsetting
// two-line journal.
type Transfer struct {
	Id            string          `json:"id" gorm:"primaryKey"`
	FromAccountId string          `json:"from_account_id" gorm:"not null"`
	ToAccountId   string          `json:"to_account_id" gorm:"not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	CurrencyCode  string          `json:"currency_code" gorm:"size:3;default:USD"`
	TransferDate  time.Time       `json:"transfer_date"`
	CreatedBy     string          `json:"created_by"`
	Memo          string          `json:"memo"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (t *Transfer) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if t.Id == "" {
		t.Id = uuid.NewString()
	}
	return
}
