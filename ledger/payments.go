package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"belcit-backend/models"
)

// CreatePaymentInput describes a payment against a bill or credit note.
type CreatePaymentInput struct {
	CustomerId       string
	ReferenceId      string // bill id for bill payments, credit note id otherwise
	Amount           decimal.Decimal
	FxAmount         *decimal.Decimal
	FxRate           *decimal.Decimal
	FxCurrencyCode   *string
	PaymentMethod    string
	PaymentType      models.PaymentType
	TransactionType  string // "bill payment" or "refund"
	ControlAccountId string // optional explicit destination account
	Cashier          string
}

func (in *CreatePaymentInput) validate() error {
	if !in.Amount.IsPositive() {
		return &ValidationError{Msg: "payment amount must be positive"}
	}
	if !in.PaymentType.Valid() {
		return &ValidationError{Msg: fmt.Sprintf("invalid payment type %q", in.PaymentType)}
	}
	if in.TransactionType != models.PaymentTnxBillPayment && in.TransactionType != models.PaymentTnxRefund {
		return &ValidationError{Msg: fmt.Sprintf("invalid transaction type %q", in.TransactionType)}
	}
	// FX fields travel together or not at all.
	fxSet := 0
	if in.FxAmount != nil {
		fxSet++
	}
	if in.FxRate != nil {
		fxSet++
	}
	if in.FxCurrencyCode != nil {
		fxSet++
	}
	if fxSet != 0 && fxSet != 3 {
		return &ValidationError{Msg: "fx_amount, fx_rate and fx_currency_code must be supplied together"}
	}
	return nil
}

// CreatePayment records a Payment and, for instant methods, posts its
// journal entries and settles the referenced bill or credit note in the same
// transaction. Deferred methods leave the payment pending until PollPayment
// confirms settlement.
func (s *Service) CreatePayment(tx *gorm.DB, in CreatePaymentInput) (*models.Payment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", in.CustomerId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "customer", Id: in.CustomerId}
		}
		return nil, err
	}

	refKind := models.RefBill
	if in.TransactionType != models.PaymentTnxBillPayment {
		refKind = models.RefCreditNote
	}

	var sourceRef string
	switch refKind {
	case models.RefBill:
		var bill models.Bill
		if err := tx.First(&bill, "id = ?", in.ReferenceId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "bill", Id: in.ReferenceId}
			}
			return nil, err
		}
		sourceRef = bill.BillNumber
	case models.RefCreditNote:
		var note models.CreditNote
		if err := tx.First(&note, "id = ?", in.ReferenceId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "credit note", Id: in.ReferenceId}
			}
			return nil, err
		}
		sourceRef = note.CreditNoteNumber
	}

	method, err := s.paymentMethod(tx, in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	isInstant := !method.IsDeferred

	status := models.PaymentPending
	if isInstant {
		status = models.PaymentPaid
	}

	paymentNumber, err := GenerateRef(tx, "payment", DatePart(), "PMT-", 4)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		PaymentNumber:   paymentNumber,
		CustomerId:      customer.Id,
		AccountId:       customer.ControlAccountId,
		Amount:          in.Amount,
		CurrencyCode:    models.BaseCurrency,
		FxAmount:        in.FxAmount,
		FxRate:          in.FxRate,
		FxCurrencyCode:  in.FxCurrencyCode,
		PaymentMethod:   in.PaymentMethod,
		PaymentType:     in.PaymentType,
		Status:          status,
		TransactionType: in.TransactionType,
		ReferenceKind:   refKind,
		ReferenceId:     in.ReferenceId,
		SourceRef:       sourceRef,
		Cashier:         in.Cashier,
		PaymentDate:     time.Now(),
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, err
	}

	if isInstant {
		if err := s.postPayment(tx, &payment, &customer, in.ControlAccountId); err != nil {
			return nil, err
		}
	}

	return &payment, nil
}

func (s *Service) paymentMethod(tx *gorm.DB, name string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	if err := tx.First(&method, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "payment method", Id: name}
		}
		return nil, err
	}
	return &method, nil
}

// resolveDestination picks the control account the money lands in: an
// explicit account wins, then the method's configured account, then the
// cash-on-hand role for plain cash.
func (s *Service) resolveDestination(tx *gorm.DB, p *models.Payment, explicitId string) (*models.ControlAccount, error) {
	accountId := explicitId
	if accountId == "" {
		method, err := s.paymentMethod(tx, p.PaymentMethod)
		if err != nil {
			return nil, err
		}
		accountId = method.ControlAccountId
	}
	if accountId == "" && p.PaymentMethod == "cash" {
		accountId = s.accounts.CashOnHand
	}
	if accountId == "" {
		return nil, &NotFoundError{Entity: "destination control account for method", Id: p.PaymentMethod}
	}

	var account models.ControlAccount
	if err := tx.First(&account, "id = ?", accountId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "control account", Id: accountId}
		}
		return nil, err
	}
	return &account, nil
}

// postPayment performs the ledger side of a settled payment: resolves the
// destination account, auto-completes ticket-linked bills, adjusts the
// customer balance, posts the journal and settles the reference.
func (s *Service) postPayment(tx *gorm.DB, p *models.Payment, customer *models.Customer, explicitAccountId string) error {
	var trader models.ControlAccount
	if err := tx.First(&trader, "id = ?", customer.ControlAccountId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "trader control account for customer", Id: customer.Id}
		}
		return err
	}

	destination, err := s.resolveDestination(tx, p, explicitAccountId)
	if err != nil {
		return err
	}

	baseAmount := p.Amount

	var ticketCompleted bool
	var outstanding decimal.Decimal
	if p.ReferenceKind == models.RefBill {
		ticketCompleted, err = s.completeTicket(tx, p.ReferenceId, baseAmount, p.PaymentType)
		if err != nil {
			return err
		}
		var bill models.Bill
		if err := tx.First(&bill, "id = ?", p.ReferenceId).Error; err != nil {
			return err
		}
		outstanding = bill.Outstanding
	}

	// Overpayments on auto-completed tickets are not tracked as credit.
	hasPrepayment := p.ReferenceKind == models.RefBill &&
		baseAmount.GreaterThan(outstanding) && !ticketCompleted

	if err := s.ApplyBalanceDelta(tx, customer.Id, baseAmount, BalancePayment); err != nil {
		return err
	}

	now := time.Now()
	description := fmt.Sprintf("%s payment for %s", p.PaymentType, customer.Id)

	var lines []JournalLine
	if p.TransactionType == models.PaymentTnxBillPayment {
		amountToBill := decimal.Min(baseAmount, outstanding)
		lines = []JournalLine{
			{
				AccountId:       destination.Id,
				Debit:           baseAmount,
				Description:     description,
				SourceRef:       p.PaymentNumber,
				TransactionType: models.TnxPayment,
				ReferenceKind:   models.RefPayment,
				ReferenceId:     p.Id,
				TnxDate:         now,
			},
		}
		// A fully settled bill leaves nothing to credit the trader with.
		if amountToBill.IsPositive() {
			lines = append(lines, JournalLine{
				AccountId:       trader.Id,
				Credit:          amountToBill,
				Description:     description,
				SourceRef:       p.PaymentNumber,
				TransactionType: models.TnxPayment,
				ReferenceKind:   models.RefPayment,
				ReferenceId:     p.Id,
				TnxDate:         now,
			})
		}
		if hasPrepayment {
			lines = append(lines, JournalLine{
				AccountId:       s.accounts.Accruals,
				Credit:          baseAmount.Sub(amountToBill),
				Description:     fmt.Sprintf("Excess payment held for future bills (%s)", customer.Id),
				SourceRef:       p.PaymentNumber,
				TransactionType: models.TnxAccrual,
				ReferenceKind:   models.RefPayment,
				ReferenceId:     p.Id,
				TnxDate:         now,
			})
		}
	} else {
		// Refunds and other non-bill payments swap the legs.
		lines = []JournalLine{
			{
				AccountId:       trader.Id,
				Debit:           baseAmount,
				Description:     description,
				SourceRef:       p.PaymentNumber,
				TransactionType: models.TnxPayment,
				ReferenceKind:   models.RefPayment,
				ReferenceId:     p.Id,
				TnxDate:         now,
			},
			{
				AccountId:       destination.Id,
				Credit:          baseAmount,
				Description:     description,
				SourceRef:       p.PaymentNumber,
				TransactionType: models.TnxPayment,
				ReferenceKind:   models.RefPayment,
				ReferenceId:     p.Id,
				TnxDate:         now,
			},
		}
	}

	if err := s.PostJournalEntry(tx, lines); err != nil {
		return err
	}

	if _, err := s.settleReference(tx, p); err != nil {
		return err
	}

	return nil
}

// PollPayment checks a deferred payment's settlement state. A pending
// payment on a deferred method settles (gateway confirmation arrives through
// the provider polling hook), posts its journal and flips to paid; anything
// already terminal is returned unchanged.
func (s *Service) PollPayment(tx *gorm.DB, paymentId string) (*models.Payment, error) {
	var payment models.Payment
	if err := tx.First(&payment, "id = ?", paymentId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "payment", Id: paymentId}
		}
		return nil, err
	}

	if payment.Status != models.PaymentPending {
		return &payment, nil
	}

	method, err := s.paymentMethod(tx, payment.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if !method.IsDeferred {
		return nil, &ConflictError{Msg: fmt.Sprintf("payment method %q does not settle by polling", method.Name)}
	}

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", payment.CustomerId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "customer", Id: payment.CustomerId}
		}
		return nil, err
	}

	payment.Status = models.PaymentPaid
	if err := tx.Model(&models.Payment{Id: payment.Id}).
		UpdateColumn("status", models.PaymentPaid).Error; err != nil {
		return nil, err
	}

	if err := s.postPayment(tx, &payment, &customer, method.ControlAccountId); err != nil {
		return nil, err
	}

	return &payment, nil
}

// ReversePaymentInput describes a reversal or refund of a paid payment.
type ReversePaymentInput struct {
	PaymentId       string
	Reason          string
	CorrectedAmount decimal.Decimal // zero means reverse the full amount
	Type            string          // "reversal" or "refund"
	ReversedBy      string
}

// ReversalResult reports the two payments involved in a reversal.
type ReversalResult struct {
	ReversedPaymentId  string `json:"reversed_payment_id"`
	CorrectedPaymentId string `json:"corrected_payment_id"`
}

// ReversePayment undoes a previously paid payment: flips its status, posts
// mirror-image compensating entries built from the original transaction
// legs, records a negative-amount correction Payment and restores the
// bill's outstanding balance and the customer balance. All-or-nothing
// within the caller's transaction.
func (s *Service) ReversePayment(tx *gorm.DB, in ReversePaymentInput) (*ReversalResult, error) {
	if in.Reason == "" {
		return nil, &ValidationError{Msg: "reversal reason is required"}
	}
	if in.Type != models.PaymentTnxReversal && in.Type != models.PaymentTnxRefund {
		return nil, &ValidationError{Msg: fmt.Sprintf("invalid reversal type %q", in.Type)}
	}

	var original models.Payment
	if err := tx.First(&original, "id = ?", in.PaymentId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "payment", Id: in.PaymentId}
		}
		return nil, err
	}

	if reversalStatus(original.Status) {
		return nil, &ConflictError{Msg: "payment already reversed or refunded"}
	}
	if original.Status != models.PaymentPaid {
		return nil, &ConflictError{Msg: "only paid payments can be reversed"}
	}

	corrected := in.CorrectedAmount
	if corrected.IsZero() {
		corrected = original.Amount
	}
	if !corrected.IsPositive() || corrected.GreaterThan(original.Amount) {
		return nil, &ValidationError{Msg: "corrected amount must be positive and not exceed the original payment"}
	}

	now := time.Now()
	newStatus := models.PaymentReversed
	correctionStatus := models.PaymentReversal
	if in.Type == models.PaymentTnxRefund {
		newStatus = models.PaymentRefunded
		correctionStatus = models.PaymentRefund
	}

	err := tx.Model(&models.Payment{Id: original.Id}).Updates(map[string]interface{}{
		"status":           newStatus,
		"reason":           in.Reason,
		"reversed_by":      in.ReversedBy,
		"transaction_type": in.Type,
		"reversal_date":    now,
	}).Error
	if err != nil {
		return nil, err
	}

	var originalLegs []models.Transaction
	err = tx.Where("reference_id = ? AND reference_kind = ?", original.Id, models.RefPayment).
		Order("created_at").Find(&originalLegs).Error
	if err != nil {
		return nil, err
	}
	if len(originalLegs) == 0 {
		return nil, &NotFoundError{Entity: "journal entries for payment", Id: original.Id}
	}

	compensating := compensatingLines(originalLegs, original, corrected, in.Type, in.Reason, now)

	reversalNumber, err := GenerateRef(tx, "payment", DatePart(), "REV-", 4)
	if err != nil {
		return nil, err
	}

	correction := models.Payment{
		PaymentNumber:   reversalNumber,
		CustomerId:      original.CustomerId,
		AccountId:       original.AccountId,
		Amount:          corrected.Neg(),
		CurrencyCode:    original.CurrencyCode,
		PaymentMethod:   original.PaymentMethod,
		PaymentType:     original.PaymentType,
		Status:          correctionStatus,
		TransactionType: in.Type,
		ReferenceKind:   original.ReferenceKind,
		ReferenceId:     original.ReferenceId,
		SourceRef:       original.SourceRef,
		Cashier:         in.ReversedBy,
		Reason:          fmt.Sprintf("Reversal correction: %s", in.Reason),
		PaymentDate:     now,
	}
	if err := tx.Create(&correction).Error; err != nil {
		return nil, err
	}

	if err := s.PostJournalEntry(tx, compensating); err != nil {
		return nil, err
	}

	if _, err := s.settleReference(tx, &correction); err != nil {
		return nil, err
	}

	// The receivable comes back onto the customer's balance.
	if err := s.ApplyBalanceDelta(tx, original.CustomerId, corrected, BalanceBill); err != nil {
		return nil, err
	}

	return &ReversalResult{
		ReversedPaymentId:  original.Id,
		CorrectedPaymentId: correction.Id,
	}, nil
}

// compensatingLines mirrors the original legs with debit and credit swapped,
// scaled to the corrected amount. Rounding drift from partial corrections is
// absorbed by the last leg so the batch still balances exactly.
func compensatingLines(legs []models.Transaction, original models.Payment, corrected decimal.Decimal, reversalType, reason string, now time.Time) []JournalLine {
	factor := decimal.NewFromInt(1)
	if !corrected.Equal(original.Amount) && original.Amount.IsPositive() {
		factor = corrected.Div(original.Amount)
	}

	tnxType := models.TnxReversal
	if reversalType == models.PaymentTnxRefund {
		tnxType = models.TnxRefund
	}

	lines := make([]JournalLine, 0, len(legs))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, leg := range legs {
		line := JournalLine{
			AccountId:       leg.AccountId,
			Debit:           leg.Credit.Mul(factor).Round(2),
			Credit:          leg.Debit.Mul(factor).Round(2),
			Description:     fmt.Sprintf("Reversal of payment %s: %s", original.PaymentNumber, reason),
			SourceRef:       original.PaymentNumber,
			TransactionType: tnxType,
			ReferenceKind:   models.RefPayment,
			ReferenceId:     original.Id,
			TnxDate:         now,
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
		lines = append(lines, line)
	}

	if diff := totalDebit.Sub(totalCredit); !diff.IsZero() {
		for i := len(lines) - 1; i >= 0; i-- {
			if lines[i].Credit.IsPositive() {
				lines[i].Credit = lines[i].Credit.Add(diff)
				break
			}
		}
	}

	return lines
}
