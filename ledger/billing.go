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

// GenerateBillInput describes a billable event: priced line items charged to
// one customer.
type GenerateBillInput struct {
	LineItemIds []string
	CustomerId  string
	Type        models.PaymentType
	Description string
	DueDate     *time.Time
	CreatedBy   string
}

// dueDateFor defaults the due date by charge type: rent gets a week, fines
// and ticket charges are due immediately, everything else gets 30 days.
func dueDateFor(billType models.PaymentType, now time.Time) time.Time {
	switch billType {
	case models.PayTypeRent:
		return now.AddDate(0, 0, 7)
	case models.PayTypeFine, models.PayTypeToilet, models.PayTypeParking:
		return now
	default:
		return now.AddDate(0, 0, 30)
	}
}

// GenerateBill creates a Bill from priced line items, posts the issuance
// journal (debit the customer's AR account, credit each line item's revenue
// account) and bumps the customer balance. Any missing referenced entity
// fails the whole operation so the caller's transaction aborts.
func (s *Service) GenerateBill(tx *gorm.DB, in GenerateBillInput) (*models.Bill, error) {
	if in.Type == "" {
		return nil, &ValidationError{Msg: "bill type is required"}
	}
	if !in.Type.Valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("invalid bill type %q", in.Type)}
	}
	if len(in.LineItemIds) == 0 {
		return nil, &ValidationError{Msg: "at least one line item is required"}
	}

	var items []models.LineItem
	if err := tx.Where("id IN ?", in.LineItemIds).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) != len(in.LineItemIds) {
		return nil, &NotFoundError{Entity: "line items"}
	}

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", in.CustomerId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "customer", Id: in.CustomerId}
		}
		return nil, err
	}
	if customer.ControlAccountId == "" {
		return nil, &NotFoundError{Entity: "control account for customer", Id: in.CustomerId}
	}

	// Enrich line items with their revenue accounts and priced amounts.
	totalAmount := decimal.Zero
	snapshot := make([]models.BillLine, 0, len(items))
	for _, item := range items {
		var account models.ControlAccount
		if err := tx.First(&account, "id = ?", item.AccountId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "control account for line item", Id: item.Id}
			}
			return nil, err
		}
		amount := item.Amount.Mul(decimal.NewFromInt(int64(item.Quantity)))
		totalAmount = totalAmount.Add(amount)
		snapshot = append(snapshot, models.BillLine{
			LineItemId: item.Id,
			AccountId:  account.Id,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Unit:       item.Unit,
			Amount:     amount,
		})
	}

	now := time.Now()
	dueDate := dueDateFor(in.Type, now)
	if in.DueDate != nil {
		dueDate = *in.DueDate
	}

	billNumber, err := GenerateRef(tx, "bill", DatePart(), "MKB-", 4)
	if err != nil {
		return nil, err
	}

	bill := models.Bill{
		BillNumber:  billNumber,
		Type:        in.Type,
		Amount:      totalAmount,
		Outstanding: totalAmount,
		Status:      models.BillUnpaid,
		CustomerId:  customer.Id,
		LineItems:   datatypes.NewJSONType(snapshot),
		Description: in.Description,
		DateIssued:  now,
		DueDate:     dueDate,
		CreatedBy:   in.CreatedBy,
	}
	if err := tx.Create(&bill).Error; err != nil {
		return nil, err
	}

	description := in.Description
	if description == "" {
		description = fmt.Sprintf("Bill for %s", customer.Id)
	}

	lines := []JournalLine{{
		AccountId:       customer.ControlAccountId,
		Debit:           totalAmount,
		Description:     description,
		SourceRef:       bill.BillNumber,
		TransactionType: models.TnxBill,
		ReferenceKind:   models.RefBill,
		ReferenceId:     bill.Id,
		TnxDate:         now,
	}}
	for _, line := range snapshot {
		lines = append(lines, JournalLine{
			AccountId:       line.AccountId,
			Credit:          line.Amount,
			Description:     description,
			SourceRef:       bill.BillNumber,
			TransactionType: models.TnxBill,
			ReferenceKind:   models.RefBill,
			ReferenceId:     bill.Id,
			TnxDate:         now,
		})
	}

	if err := s.ApplyBalanceDelta(tx, customer.Id, totalAmount, BalanceBill); err != nil {
		return nil, err
	}
	if err := s.PostJournalEntry(tx, lines); err != nil {
		return nil, err
	}

	return &bill, nil
}

// settlement is the outcome of applying one payment to its reference.
type settlement struct {
	Applied decimal.Decimal
	Excess  decimal.Decimal
}

// statusFor derives the paid status purely from outstanding vs the original
// amount: paid at zero, unpaid when fully open, partially-paid in between.
func statusFor(outstanding, amount decimal.Decimal) models.BillStatus {
	switch {
	case outstanding.IsZero():
		return models.BillPaid
	case outstanding.Equal(amount):
		return models.BillUnpaid
	default:
		return models.BillPartiallyPaid
	}
}

func reversalStatus(status models.PaymentStatus) bool {
	switch status {
	case models.PaymentReversed, models.PaymentRefunded, models.PaymentReversal, models.PaymentRefund:
		return true
	}
	return false
}

// settleReference updates outstanding and paid status on the payment's Bill
// or CreditNote. Normal payments reduce outstanding (excess over the bill
// becomes a CustomerPrepayment); reversal-family payments restore it, capped
// at the original amount.
func (s *Service) settleReference(tx *gorm.DB, p *models.Payment) (settlement, error) {
	var out settlement

	var (
		amount      decimal.Decimal
		outstanding decimal.Decimal
	)
	var bill models.Bill
	var note models.CreditNote

	switch p.ReferenceKind {
	case models.RefBill:
		if err := tx.First(&bill, "id = ?", p.ReferenceId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return out, &NotFoundError{Entity: "bill", Id: p.ReferenceId}
			}
			return out, err
		}
		amount, outstanding = bill.Amount, bill.Outstanding
	case models.RefCreditNote:
		if err := tx.First(&note, "id = ?", p.ReferenceId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return out, &NotFoundError{Entity: "credit note", Id: p.ReferenceId}
			}
			return out, err
		}
		amount, outstanding = note.Amount, note.Outstanding
	default:
		return out, &ValidationError{Msg: fmt.Sprintf("invalid settlement reference kind %q", p.ReferenceKind)}
	}

	amountPaid := amount.Sub(outstanding)

	if reversalStatus(p.Status) {
		// Restore outstanding by the reversed amount, never past the original.
		applied := decimal.Min(p.Amount.Abs(), amountPaid)
		outstanding = decimal.Min(amount, outstanding.Add(applied))
		out.Applied = applied
	} else {
		applied := decimal.Min(p.Amount, outstanding)
		excess := p.Amount.Sub(applied)
		if applied.IsPositive() {
			outstanding = decimal.Max(decimal.Zero, outstanding.Sub(applied))
		}

		if excess.IsPositive() && p.ReferenceKind == models.RefBill {
			prepayment := models.CustomerPrepayment{
				CustomerId:        p.CustomerId,
				Amount:            excess,
				RemainingBalance:  excess,
				CurrencyCode:      p.CurrencyCode,
				OriginalPaymentId: p.Id,
				Status:            models.PrepaymentAvailable,
			}
			if err := tx.Create(&prepayment).Error; err != nil {
				return out, err
			}
		}
		out.Applied = applied
		out.Excess = excess
	}

	status := statusFor(outstanding, amount)

	updates := map[string]interface{}{"outstanding": outstanding, "status": status}
	switch p.ReferenceKind {
	case models.RefBill:
		if err := tx.Model(&models.Bill{Id: bill.Id}).Updates(updates).Error; err != nil {
			return out, err
		}
	case models.RefCreditNote:
		if err := tx.Model(&models.CreditNote{Id: note.Id}).Updates(updates).Error; err != nil {
			return out, err
		}
	}

	return out, nil
}
