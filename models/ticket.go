package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketCheckedIn  TicketStatus = "checked-in"
	TicketCheckedOut TicketStatus = "checked-out"
)

// Ticket links a parking/toilet visit to its bill. Paying the bill for an
// auto-complete ticket type checks the ticket out.
type Ticket struct {
	Id           string       `json:"id" gorm:"primaryKey"`
	TicketNumber string       `json:"ticket_number" gorm:"size:32;uniqueIndex"`
	BillId       string       `json:"bill_id" gorm:"index"`
	TicketType   PaymentType  `json:"ticket_type" gorm:"size:20;not null"`
	Status       TicketStatus `json:"status" gorm:"size:16;default:checked-in"`
	EntryTime    time.Time    `json:"entry_time"`
	ExitTime     *time.Time   `json:"exit_time"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if t.Id == "" {
		t.Id = uuid.NewString()
	}
	return
}
