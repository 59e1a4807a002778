package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"belcit-backend/models"
)

// ApplyPrepaymentToBill greedily consumes the customer's available
// prepayments oldest-first against a bill's outstanding balance. Each
// application creates a zero-new-cash Payment and posts a journal moving the
// amount from the accruals account back to the customer's AR account.
// Returns the amount still outstanding after exhausting prepayments.
func (s *Service) ApplyPrepaymentToBill(tx *gorm.DB, customerId, billId string) (decimal.Decimal, error) {
	var bill models.Bill
	if err := tx.First(&bill, "id = ?", billId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, &NotFoundError{Entity: "bill", Id: billId}
		}
		return decimal.Zero, err
	}

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", customerId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, &NotFoundError{Entity: "customer", Id: customerId}
		}
		return decimal.Zero, err
	}
	if customer.ControlAccountId == "" {
		return decimal.Zero, &NotFoundError{Entity: "control account for customer", Id: customerId}
	}

	var prepayments []models.CustomerPrepayment
	err := tx.Where("customer_id = ? AND status = ? AND remaining_balance > 0",
		customerId, models.PrepaymentAvailable).
		Order("created_at").Find(&prepayments).Error
	if err != nil {
		return decimal.Zero, err
	}

	amountNeeded := bill.Outstanding

	for i := range prepayments {
		if !amountNeeded.IsPositive() {
			break
		}
		prepayment := &prepayments[i]
		applyAmount := decimal.Min(prepayment.RemainingBalance, amountNeeded)

		paymentNumber, err := GenerateRef(tx, "prepayment", DatePart(), "PRE-", 4)
		if err != nil {
			return decimal.Zero, err
		}

		payment := models.Payment{
			PaymentNumber:   paymentNumber,
			CustomerId:      customerId,
			AccountId:       customer.ControlAccountId,
			Amount:          applyAmount,
			CurrencyCode:    prepayment.CurrencyCode,
			PaymentMethod:   "prepayment",
			PaymentType:     bill.Type,
			Status:          models.PaymentPaid,
			TransactionType: models.PaymentTnxBillPayment,
			ReferenceKind:   models.RefBill,
			ReferenceId:     bill.Id,
			SourceRef:       bill.BillNumber,
			PaymentDate:     time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return decimal.Zero, err
		}

		applied := prepayment.AppliedPayments.Data()
		applied = append(applied, models.AppliedPayment{
			BillId:    bill.Id,
			Amount:    applyAmount,
			AppliedAt: time.Now(),
		})
		prepayment.RemainingBalance = prepayment.RemainingBalance.Sub(applyAmount)
		prepayment.AppliedPayments = datatypes.NewJSONType(applied)
		if prepayment.RemainingBalance.IsZero() {
			prepayment.Status = models.PrepaymentUsed
		}
		err = tx.Model(&models.CustomerPrepayment{Id: prepayment.Id}).Updates(map[string]interface{}{
			"remaining_balance": prepayment.RemainingBalance,
			"applied_payments":  prepayment.AppliedPayments,
			"status":            prepayment.Status,
		}).Error
		if err != nil {
			return decimal.Zero, err
		}

		lines := []JournalLine{
			{
				AccountId:       s.accounts.Accruals,
				Debit:           applyAmount,
				Description:     fmt.Sprintf("Prepayment applied to bill %s", bill.BillNumber),
				SourceRef:       payment.PaymentNumber,
				TransactionType: models.TnxPrepayApply,
				ReferenceKind:   models.RefPayment,
				ReferenceId:     payment.Id,
			},
			{
				AccountId:       customer.ControlAccountId,
				Credit:          applyAmount,
				Description:     fmt.Sprintf("Prepayment applied from %s", prepayment.Id),
				SourceRef:       payment.PaymentNumber,
				TransactionType: models.TnxPayment,
				ReferenceKind:   models.RefPayment,
				ReferenceId:     payment.Id,
			},
		}
		if err := s.PostJournalEntry(tx, lines); err != nil {
			return decimal.Zero, err
		}

		if _, err := s.settleReference(tx, &payment); err != nil {
			return decimal.Zero, err
		}
		if err := s.ApplyBalanceDelta(tx, customerId, applyAmount, BalancePayment); err != nil {
			return decimal.Zero, err
		}

		amountNeeded = amountNeeded.Sub(applyAmount)
	}

	return amountNeeded, nil
}
