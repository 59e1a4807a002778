package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineItem is a priced, billable item. AccountId names the control account
// its revenue is posted to when a bill is generated from it.
type LineItem struct {
	Id          string          `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" gorm:"not null;default:1"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"` // unit amount
	Unit        string          `json:"unit" gorm:"not null"`             // kg, pcs, hourly, use...
	AccountId   string          `json:"account_id" gorm:"not null"`
	Account     ControlAccount  `json:"-" gorm:"foreignKey:AccountId;references:Id"`
	Status      string          `json:"status" gorm:"size:16;default:active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (l *LineItem) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if l.Id == "" {
		l.Id = uuid.NewString()
	}
	return
}
