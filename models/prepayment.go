package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PrepaymentStatus string

const (
	PrepaymentAvailable PrepaymentStatus = "available"
	PrepaymentUsed      PrepaymentStatus = "used"
	PrepaymentRefunded  PrepaymentStatus = "refunded"
)

// AppliedPayment records one consumption of a prepayment against a bill.
type AppliedPayment struct {
	BillId    string          `json:"bill_id"`
	Amount    decimal.Decimal `json:"amount"`
	AppliedAt time.Time       `json:"applied_at"`
}

// CustomerPrepayment is unapplied customer credit created when a payment
// exceeds a bill's outstanding balance. RemainingBalance only decreases and
// status flips to used exactly when it reaches zero.
type CustomerPrepayment struct {
	Id                string                                  `json:"id" gorm:"primaryKey"`
	CustomerId        string                                  `json:"customer_id" gorm:"not null;index"`
	Amount            decimal.Decimal                         `json:"amount" gorm:"type:numeric(12,2);not null"`
	RemainingBalance  decimal.Decimal                         `json:"remaining_balance" gorm:"type:numeric(12,2);not null"`
	CurrencyCode      string                                  `json:"currency_code" gorm:"size:3;default:USD"`
	OriginalPaymentId string                                  `json:"original_payment_id" gorm:"not null"`
	Status            PrepaymentStatus                        `json:"status" gorm:"size:16;default:available;index"`
	AppliedPayments   datatypes.JSONType[[]AppliedPayment]    `json:"applied_payments"`
	CreatedAt         time.Time                               `json:"created_at"`
	UpdatedAt         time.Time                               `json:"updated_at"`
}

func (p *CustomerPrepayment) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if p.Id == "" {
		p.Id = uuid.NewString()
	}
	return
}
