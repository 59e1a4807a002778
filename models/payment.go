package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BaseCurrency is the system base currency; every amount is tracked in it.
const BaseCurrency = "USD"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentReversed PaymentStatus = "reversed"
	PaymentReversal PaymentStatus = "reversal"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentRefund   PaymentStatus = "refund"
)

type PaymentType string

const (
	PayTypeParking PaymentType = "parking"
	PayTypeToilet  PaymentType = "toilet"
	PayTypeRent    PaymentType = "rent"
	PayTypeFine    PaymentType = "fine"
	PayTypeDeposit PaymentType = "deposit"
	PayTypeOther   PaymentType = "other"
)

var PaymentTypes = []PaymentType{
	PayTypeParking, PayTypeToilet, PayTypeRent, PayTypeFine, PayTypeDeposit, PayTypeOther,
}

func (t PaymentType) Valid() bool {
	for _, v := range PaymentTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Payment transaction types (the business intent, distinct from the journal
// TransactionType on each posted leg).
const (
	PaymentTnxBillPayment = "bill payment"
	PaymentTnxRefund      = "refund"
	PaymentTnxReversal    = "reversal"
)

// Payment is a transfer of money against a Bill or CreditNote. Status moves
// pending -> paid on posting and paid -> reversed/refunded on compensation;
// terminal states are never left again.
type Payment struct {
	Id            string          `json:"id" gorm:"primaryKey"`
	PaymentNumber string          `json:"payment_number" gorm:"size:32;uniqueIndex"`
	CustomerId    string          `json:"customer_id" gorm:"not null;index"`
	Customer      Customer        `json:"-" gorm:"foreignKey:CustomerId;references:Id"`
	AccountId     string          `json:"account_id" gorm:"not null"` // trader / refund control account
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	CurrencyCode  string          `json:"currency_code" gorm:"size:3;default:USD"`

	// Optional foreign-currency shadow; all three set together or none.
	FxAmount       *decimal.Decimal `json:"fx_amount" gorm:"type:numeric(12,2)"`
	FxRate         *decimal.Decimal `json:"fx_rate" gorm:"type:numeric(12,6)"`
	FxCurrencyCode *string          `json:"fx_currency_code" gorm:"size:3"`

	PaymentMethod   string        `json:"payment_method" gorm:"size:32;not null"`
	PaymentType     PaymentType   `json:"payment_type" gorm:"size:20;not null"`
	Status          PaymentStatus `json:"status" gorm:"size:16;default:pending"`
	TransactionType string        `json:"transaction_type" gorm:"size:32;not null"`
	ReferenceKind   ReferenceKind `json:"reference_kind" gorm:"size:32;not null"`
	ReferenceId     string        `json:"reference_id" gorm:"not null;index"`
	SourceRef       string        `json:"source_ref"`

	Cashier      string     `json:"cashier"`
	ReversedBy   string     `json:"reversed_by"`
	Reason       string     `json:"reason"`
	ReversalDate *time.Time `json:"reversal_date"`
	PaymentDate  time.Time  `json:"payment_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if p.Id == "" {
		p.Id = uuid.NewString()
	}
	return
}
