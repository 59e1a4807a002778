package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"belcit-backend/models"
)

// autoCompleteTicketType reports whether paying a bill of this type checks
// the linked ticket out immediately.
func autoCompleteTicketType(t models.PaymentType) bool {
	return t == models.PayTypeParking || t == models.PayTypeToilet
}

// completeTicket checks out the ticket linked to billId and pins the bill's
// amount to the final charged amount. Returns true when a ticket was
// auto-completed; false for payment types that never auto-complete.
func (s *Service) completeTicket(tx *gorm.DB, billId string, finalAmount decimal.Decimal, paymentType models.PaymentType) (bool, error) {
	if !autoCompleteTicketType(paymentType) {
		return false, nil
	}

	var ticket models.Ticket
	if err := tx.First(&ticket, "bill_id = ?", billId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, &NotFoundError{Entity: "ticket for bill", Id: billId}
		}
		return false, err
	}

	if ticket.Status == models.TicketCheckedOut {
		return true, nil
	}

	exitTime := time.Now()
	err := tx.Model(&models.Ticket{Id: ticket.Id}).Updates(map[string]interface{}{
		"status":    models.TicketCheckedOut,
		"exit_time": exitTime,
	}).Error
	if err != nil {
		return false, err
	}

	// The final charge replaces the provisional amount on the ticket's bill.
	err = tx.Model(&models.Bill{Id: billId}).Updates(map[string]interface{}{
		"amount":      finalAmount,
		"outstanding": finalAmount,
	}).Error
	if err != nil {
		return false, err
	}

	return true, nil
}
