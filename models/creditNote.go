package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditNote is credit issued to a customer; payments can settle against it
// the same way they settle bills, with journal legs swapped.
type CreditNote struct {
	Id               string          `json:"id" gorm:"primaryKey"`
	CreditNoteNumber string          `json:"credit_note_number" gorm:"size:32;uniqueIndex"`
	CustomerId       string          `json:"customer_id" gorm:"not null;index"`
	Amount           decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Outstanding      decimal.Decimal `json:"outstanding" gorm:"type:numeric(12,2)"`
	Status           BillStatus      `json:"status" gorm:"size:20;default:unpaid"`
	Reason           string          `json:"reason"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (n *CreditNote) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if n.Id == "" {
		n.Id = uuid.NewString()
	}
	return
}
