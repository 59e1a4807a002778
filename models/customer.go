package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerType string

const (
	CustomerWalkIn CustomerType = "walk-in"
	CustomerTrader CustomerType = "trader"
	CustomerBuyer  CustomerType = "buyer"
)

// Customer holds a derived DcBalance: a cache of "sum of unpaid bills",
// adjusted only by the ledger balance updater.
type Customer struct {
	Id               string          `json:"id" gorm:"primaryKey"`
	FirstName        string          `json:"first_name" gorm:"not null"`
	LastName         string          `json:"last_name" gorm:"not null"`
	Email            string          `json:"email"`
	PhoneNumber      string          `json:"phone_number"`
	IdNumber         string          `json:"id_number"`
	CustomerType     CustomerType    `json:"customer_type" gorm:"size:16;not null"`
	DcBalance        decimal.Decimal `json:"dc_balance" gorm:"type:numeric(12,2)"`
	ControlAccountId string          `json:"control_account_id" gorm:"index"`
	ControlAccount   ControlAccount  `json:"-" gorm:"foreignKey:ControlAccountId;references:Id"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if c.Id == "" {
		c.Id = uuid.NewString()
	}
	return
}
