package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountType string

const (
	AccountTypeIncome       AccountType = "income"
	AccountTypeExpense      AccountType = "expense"
	AccountTypeAsset        AccountType = "asset"
	AccountTypeLiability    AccountType = "liability"
	AccountTypeEquity       AccountType = "equity"
	AccountTypeContraIncome AccountType = "contra-income"
)

// AccountTypes lists every valid control-account type.
var AccountTypes = []AccountType{
	AccountTypeIncome, AccountTypeExpense, AccountTypeAsset,
	AccountTypeLiability, AccountTypeEquity, AccountTypeContraIncome,
}

func (t AccountType) Valid() bool {
	for _, v := range AccountTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ControlAccount is a ledger account aggregating debits/credits for one category.
// TotalDebit/TotalCredit are written only through the journal poster.
type ControlAccount struct {
	Id          string          `json:"id" gorm:"primaryKey"`
	Code        string          `json:"code" gorm:"size:16;not null;uniqueIndex"`
	AccountName string          `json:"account_name" gorm:"not null"`
	AccountType AccountType     `json:"account_type" gorm:"size:20;not null"`
	TotalDebit  decimal.Decimal `json:"total_debit" gorm:"type:numeric(12,2)"`
	TotalCredit decimal.Decimal `json:"total_credit" gorm:"type:numeric(12,2)"`
	IsSystem    bool            `json:"is_system"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (a *ControlAccount) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if a.Id == "" {
		a.Id = uuid.NewString()
	}
	return
}
