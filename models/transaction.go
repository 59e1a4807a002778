package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferenceKind discriminates what a journal line or payment points at.
type ReferenceKind string

const (
	RefBill       ReferenceKind = "Bill"
	RefPayment    ReferenceKind = "Payment"
	RefCreditNote ReferenceKind = "CreditNote"
	RefPrepayment ReferenceKind = "CustomerPrepayment"
	RefTransfer   ReferenceKind = "Transfer"
)

var ReferenceKinds = []ReferenceKind{RefBill, RefPayment, RefCreditNote, RefPrepayment, RefTransfer}

func (k ReferenceKind) Valid() bool {
	for _, v := range ReferenceKinds {
		if k == v {
			return true
		}
	}
	return false
}

// TransactionType labels one posting batch's business event.
type TransactionType string

const (
	TnxBill        TransactionType = "bill"
	TnxPayment     TransactionType = "payment"
	TnxCreditNote  TransactionType = "credit-note"
	TnxAdjustment  TransactionType = "adjustment"
	TnxAccrual     TransactionType = "accrual"
	TnxTransfer    TransactionType = "transfer"
	TnxReversal    TransactionType = "reversal"
	TnxRefund      TransactionType = "refund"
	TnxPrepayApply TransactionType = "prepayment-application"
)

// Transaction is one leg of a double-entry posting. Exactly one of Debit/Credit
// is positive; within a batch inserted together sum(debit) == sum(credit).
// Rows are never updated or deleted; reversals post offsetting entries.
type Transaction struct {
	Id              string          `json:"id" gorm:"primaryKey"`
	AccountId       string          `json:"account_id" gorm:"not null;index"`
	Account         ControlAccount  `json:"-" gorm:"foreignKey:AccountId;references:Id"`
	Description     string          `json:"description" gorm:"not null"`
	Debit           decimal.Decimal `json:"debit" gorm:"type:numeric(12,2)"`
	Credit          decimal.Decimal `json:"credit" gorm:"type:numeric(12,2)"`
	SourceRef       string          `json:"source_ref"` // e.g. MKB-250428-0001
	ReferenceId     string          `json:"reference_id" gorm:"not null;index"`
	ReferenceKind   ReferenceKind   `json:"reference_kind" gorm:"size:32;not null"`
	TransactionType TransactionType `json:"transaction_type" gorm:"size:32;not null;index"`
	TnxDate         time.Time       `json:"tnx_date" gorm:"index"`
	PostDate        time.Time       `json:"post_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if t.Id == "" {
		t.Id = uuid.NewString()
	}
	return
}
