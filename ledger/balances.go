package ledger

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"belcit-backend/models"
)

// BalanceKind decides the sign of a customer balance adjustment.
type BalanceKind string

const (
	BalanceBill    BalanceKind = "bill"    // increases DcBalance
	BalancePayment BalanceKind = "payment" // decreases DcBalance
)

// ApplyBalanceDelta adjusts a customer's derived balance. Amount is taken as
// an absolute value; the sign comes from kind. A blank customerId is a no-op
// so callers can suppress balance effects per payment type; a missing
// customer matches zero rows and is tolerated silently.
func (s *Service) ApplyBalanceDelta(tx *gorm.DB, customerId string, amount decimal.Decimal, kind BalanceKind) error {
	if kind != BalanceBill && kind != BalancePayment {
		return &ValidationError{Msg: "invalid balance update kind, expected 'bill' or 'payment'"}
	}
	if customerId == "" {
		return nil
	}

	delta := amount.Abs()
	if kind == BalancePayment {
		delta = delta.Neg()
	}

	return tx.Model(&models.Customer{}).
		Where("id = ?", customerId).
		UpdateColumn("dc_balance", gorm.Expr("dc_balance + ?", delta)).Error
}
