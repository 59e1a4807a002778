package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentMethod configures how a named method settles. Deferred methods
// (mobile money) start payments in pending; instant ones post immediately.
type PaymentMethod struct {
	Id               string    `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"size:32;not null;uniqueIndex"` // cash, ecocash, bank-transfer...
	Label            string    `json:"label"`
	ControlAccountId string    `json:"control_account_id"`
	IsDeferred       bool      `json:"is_deferred"`
	Category         string    `json:"category" gorm:"size:20;default:other"` // cash, bank-transfer, mobile-money, other
	IsActive         bool      `json:"is_active" gorm:"default:true"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (m *PaymentMethod) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if m.Id == "" {
		m.Id = uuid.NewString()
	}
	return
}
