package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BillStatus string

const (
	BillUnpaid        BillStatus = "unpaid"
	BillPartiallyPaid BillStatus = "partially-paid"
	BillPaid          BillStatus = "paid"
	BillRefunded      BillStatus = "refunded"
)

// BillLine is the denormalized line-item snapshot copied onto a bill at
// creation. It stays frozen even if the source LineItem changes later.
type BillLine struct {
	LineItemId string          `json:"line_item_id"`
	AccountId  string          `json:"account_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Unit       string          `json:"unit"`
	Amount     decimal.Decimal `json:"amount"` // quantity x unit amount
}

// Bill is a charge issued to a customer, trackable to zero via payments.
// Invariant: 0 <= Outstanding <= Amount.
type Bill struct {
	Id          string                           `json:"id" gorm:"primaryKey"`
	BillNumber  string                           `json:"bill_number" gorm:"size:32;uniqueIndex"`
	Type        PaymentType                      `json:"type" gorm:"size:20;not null"`
	Amount      decimal.Decimal                  `json:"amount" gorm:"type:numeric(12,2);not null"`
	Outstanding decimal.Decimal                  `json:"outstanding" gorm:"type:numeric(12,2)"`
	Status      BillStatus                       `json:"status" gorm:"size:20;default:unpaid"`
	CustomerId  string                           `json:"customer_id" gorm:"not null;index"`
	Customer    Customer                         `json:"customer" gorm:"foreignKey:CustomerId;references:Id"`
	LineItems   datatypes.JSONType[[]BillLine]   `json:"line_items"`
	Description string                           `json:"description"`
	DateIssued  time.Time                        `json:"date_issued"`
	DueDate     time.Time                        `json:"due_date" gorm:"not null"`
	CreatedBy   string                           `json:"created_by"`
	CreatedAt   time.Time                        `json:"created_at"`
	UpdatedAt   time.Time                        `json:"updated_at"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if b.Id == "" {
		b.Id = uuid.NewString()
	}
	return
}
