package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belcit-backend/models"
)

func cashPayment(s *testSetup, referenceId string, amount string) CreatePaymentInput {
	return CreatePaymentInput{
		CustomerId:      s.Customer.Id,
		ReferenceId:     referenceId,
		Amount:          dec(amount),
		PaymentMethod:   "cash",
		PaymentType:     models.PayTypeRent,
		TransactionType: models.PaymentTnxBillPayment,
	}
}

func TestCreatePaymentSettlesBill(t *testing.T) {
	s := newTestSetup(t)
	bill := s.rentBill(t)

	payment, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "50"))
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPaid, payment.Status)
	assert.Contains(t, payment.PaymentNumber, "PMT-")
	assert.Equal(t, bill.BillNumber, payment.SourceRef)

	settled := s.reloadBill(t, bill.Id)
	assert.Equal(t, models.BillPaid, settled.Status)
	assert.True(t, settled.Outstanding.IsZero())

	// Money landed in cash, receivable cleared.
	cash := s.reloadAccount(t, s.CashAccount.Id)
	assert.True(t, cash.TotalDebit.Equal(dec("50")))
	trader := s.reloadAccount(t, s.TraderAccount.Id)
	assert.True(t, trader.TotalDebit.Equal(trader.TotalCredit))

	customer := s.reloadCustomer(t)
	assert.True(t, customer.DcBalance.IsZero(), "balance %s", customer.DcBalance)

	s.requireBalancedBooks(t)
}

func TestCreatePaymentPartial(t *testing.T) {
	s := newTestSetup(t)
	bill := s.rentBill(t)

	_, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "20"))
	require.NoError(t, err)

	partial := s.reloadBill(t, bill.Id)
	assert.Equal(t, models.BillPartiallyPaid, partial.Status)
	assert.True(t, partial.Outstanding.Equal(dec("30")))

	customer := s.reloadCustomer(t)
	assert.True(t, customer.DcBalance.Equal(dec("30")))

	// Second payment clears it.
	_, err = s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "30"))
	require.NoError(t, err)

	settled := s.reloadBill(t, bill.Id)
	assert.Equal(t, models.BillPaid, settled.Status)
	assert.True(t, settled.Outstanding.IsZero())

	s.requireBalancedBooks(t)
}

func TestCreatePaymentOverpaymentCreatesPrepayment(t *testing.T) {
	s := newTestSetup(t)
	bill := s.rentBill(t)

	payment, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "70"))
	require.NoError(t, err)

	settled := s.reloadBill(t, bill.Id)
	assert.Equal(t, models.BillPaid, settled.Status)
	assert.True(t, settled.Outstanding.IsZero())

	// The 20 excess sits in a prepayment backed by the accruals account.
	var prepayments []models.CustomerPrepayment
	require.NoError(t, s.DB.Where("customer_id = ?", s.Customer.Id).Find(&prepayments).Error)
	require.Len(t, prepayments, 1)
	assert.True(t, prepayments[0].Amount.Equal(dec("20")))
	assert.True(t, prepayments[0].RemainingBalance.Equal(dec("20")))
	assert.Equal(t, models.PrepaymentAvailable, prepayments[0].Status)
	assert.Equal(t, payment.Id, prepayments[0].OriginalPaymentId)

	accruals := s.reloadAccount(t, s.AccrualsAccount.Id)
	assert.True(t, accruals.TotalCredit.Equal(dec("20")))

	s.requireBalancedBooks(t)
}

func TestCreatePaymentValidation(t *testing.T) {
	s := newTestSetup(t)
	bill := s.rentBill(t)

	var validation *ValidationError
	var notFound *NotFoundError

	in := cashPayment(s, bill.Id, "0")
	_, err := s.Service.CreatePayment(s.DB, in)
	require.ErrorAs(t, err, &validation)

	in = cashPayment(s, bill.Id, "50")
	in.TransactionType = "withdrawal"
	_, err = s.Service.CreatePayment(s.DB, in)
	require.ErrorAs(t, err, &validation)

	// FX fields must travel together.
	fxRate := dec("1.35")
	in = cashPayment(s, bill.Id, "50")
	in.FxRate = &fxRate
	_, err = s.Service.CreatePayment(s.DB, in)
	require.ErrorAs(t, err, &validation)

	in = cashPayment(s, "missing-bill", "50")
	_, err = s.Service.CreatePayment(s.DB, in)
	require.ErrorAs(t, err, &notFound)

	in = cashPayment(s, bill.Id, "50")
	in.PaymentMethod = "cheque"
	_, err = s.Service.CreatePayment(s.DB, in)
	require.ErrorAs(t, err, &notFound)
}

func TestDeferredPaymentLifecycle(t *testing.T) {
	s := newTestSetup(t)
	bill := s.rentBill(t)

	in := cashPayment(s, bill.Id, "50")
	in.PaymentMethod = "ecocash"
	payment, err := s.Service.CreatePayment(s.DB, in)
	require.NoError(t, err)

	// Deferred methods start pending with no ledger effect.
	assert.Equal(t, models.PaymentPending, payment.Status)
	open := s.reloadBill(t, bill.Id)
	assert.Equal(t, models.BillUnpaid, open.Status)
	assert.True(t, open.Outstanding.Equal(dec("50")))

	var legs []models.Transaction
	require.NoError(t, s.DB.Where("reference_id = ?", payment.Id).Find(&legs).Error)
	assert.Empty(t, legs)

	// Poll settles it.
	polled, err := s.Service.PollPayment(s.DB, payment.Id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, polled.Status)

	settled := s.reloadBill(t, bill.Id)
	assert.Equal(t, models.BillPaid, settled.Status)
	assert.True(t, settled.Outstanding.IsZero())

	bank := s.reloadAccount(t, s.BankAccount.Id)
	assert.True(t, bank.TotalDebit.Equal(dec("50")))

	// Polling again is a no-op.
	count := s.transactionCount(t)
	again, err := s.Service.PollPayment(s.DB, payment.Id)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, again.Status)
	assert.Equal(t, count, s.transactionCount(t))

	s.requireBalancedBooks(t)
}

func TestPollPaymentInstantPendingConflicts(t *testing.T) {
	s := newTestSetup(t)
	bill := s.rentBill(t)

	// Force an impossible state: pending payment on an instant method.
	payment := models.Payment{
		PaymentNumber:   "PMT-TEST-0001",
		CustomerId:      s.Customer.Id,
		AccountId:       s.TraderAccount.Id,
		Amount:          dec("50"),
		CurrencyCode:    models.BaseCurrency,
		PaymentMethod:   "cash",
		PaymentType:     models.PayTypeRent,
		Status:          models.PaymentPending,
		TransactionType: models.PaymentTnxBillPayment,
		ReferenceKind:   models.RefBill,
		ReferenceId:     bill.Id,
	}
	require.NoError(t, s.DB.Create(&payment).Error)

	var conflict *ConflictError
	_, err := s.Service.PollPayment(s.DB, payment.Id)
	require.ErrorAs(t, err, &conflict)
}

func TestReversePaymentFull(t *testing.T) {
	s := newTestSetup(t)
	bill := s.rentBill(t)

	payment, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "50"))
	require.NoError(t, err)

	result, err := s.Service.ReversePayment(s.DB, ReversePaymentInput{
		PaymentId: payment.Id,
		Reason:    "charged the wrong trader",
		Type:      models.PaymentTnxReversal,
	})
	require.NoError(t, err)
	assert.Equal(t, payment.Id, result.ReversedPaymentId)
	assert.NotEmpty(t, result.CorrectedPaymentId)

	// Original flipped, correction carries the negative amount.
	var original models.Payment
	require.NoError(t, s.DB.First(&original, "id = ?", payment.Id).Error)
	assert.Equal(t, models.PaymentReversed, original.Status)
	assert.Equal(t, models.PaymentTnxReversal, original.TransactionType)
	assert.NotNil(t, original.ReversalDate)

	var correction models.Payment
	require.NoError(t, s.DB.First(&correction, "id = ?", result.CorrectedPaymentId).Error)
	assert.Equal(t, models.PaymentReversal, correction.Status)
	assert.True(t, correction.Amount.Equal(dec("-50")))
	assert.Contains(t, correction.PaymentNumber, "REV-")

	// Bill reopened in full, receivable restored.
	reopened := s.reloadBill(t, bill.Id)
	assert.Equal(t, models.BillUnpaid, reopened.Status)
	assert.True(t, reopened.Outstanding.Equal(dec("50")))

	customer := s.reloadCustomer(t)
	assert.True(t, customer.DcBalance.Equal(dec("50")))

	// Cash came back out.
	cash := s.reloadAccount(t, s.CashAccount.Id)
	assert.True(t, cash.TotalDebit.Equal(cash.TotalCredit))

	s.requireBalancedBooks(t)
}

func TestReversePaymentPartial(t *testing.T) {
	s := newTestSetup(t)
	bill := s.rentBill(t)

	payment, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "50"))
	require.NoError(t, err)

	_, err = s.Service.ReversePayment(s.DB, ReversePaymentInput{
		PaymentId:       payment.Id,
		Reason:          "overcharged by 20",
		CorrectedAmount: dec("20"),
		Type:            models.PaymentTnxReversal,
	})
	require.NoError(t, err)

	reopened := s.reloadBill(t, bill.Id)
	assert.Equal(t, models.BillPartiallyPaid, reopened.Status)
	assert.True(t, reopened.Outstanding.Equal(dec("20")), "outstanding %s", reopened.Outstanding)

	s.requireBalancedBooks(t)
}

func TestReversePaymentGuards(t *testing.T) {
	s := newTestSetup(t)
	bill := s.rentBill(t)

	payment, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "50"))
	require.NoError(t, err)

	var validation *ValidationError
	var conflict *ConflictError

	// Reason and a valid type are mandatory.
	_, err = s.Service.ReversePayment(s.DB, ReversePaymentInput{
		PaymentId: payment.Id,
		Type:      models.PaymentTnxReversal,
	})
	require.ErrorAs(t, err, &validation)

	_, err = s.Service.ReversePayment(s.DB, ReversePaymentInput{
		PaymentId: payment.Id,
		Reason:    "r",
		Type:      "chargeback",
	})
	require.ErrorAs(t, err, &validation)

	// Corrected amount above the original is rejected.
	_, err = s.Service.ReversePayment(s.DB, ReversePaymentInput{
		PaymentId:       payment.Id,
		Reason:          "r",
		CorrectedAmount: dec("60"),
		Type:            models.PaymentTnxReversal,
	})
	require.ErrorAs(t, err, &validation)

	// First reversal succeeds, second conflicts without touching the books.
	_, err = s.Service.ReversePayment(s.DB, ReversePaymentInput{
		PaymentId: payment.Id,
		Reason:    "duplicate charge",
		Type:      models.PaymentTnxReversal,
	})
	require.NoError(t, err)

	count := s.transactionCount(t)
	_, err = s.Service.ReversePayment(s.DB, ReversePaymentInput{
		PaymentId: payment.Id,
		Reason:    "again",
		Type:      models.PaymentTnxReversal,
	})
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, count, s.transactionCount(t))
}

func TestReversePendingPaymentConflicts(t *testing.T) {
	s := newTestSetup(t)
	bill := s.rentBill(t)

	in := cashPayment(s, bill.Id, "50")
	in.PaymentMethod = "ecocash"
	payment, err := s.Service.CreatePayment(s.DB, in)
	require.NoError(t, err)

	var conflict *ConflictError
	_, err = s.Service.ReversePayment(s.DB, ReversePaymentInput{
		PaymentId: payment.Id,
		Reason:    "never confirmed",
		Type:      models.PaymentTnxReversal,
	})
	require.ErrorAs(t, err, &conflict)
}

func TestTicketPaymentAutoCompletes(t *testing.T) {
	s := newTestSetup(t)

	bill, err := s.Service.GenerateBill(s.DB, GenerateBillInput{
		LineItemIds: []string{s.ParkingItem.Id},
		CustomerId:  s.Customer.Id,
		Type:        models.PayTypeParking,
	})
	require.NoError(t, err)

	ticket := models.Ticket{
		TicketNumber: "TKT-TEST-0001",
		BillId:       bill.Id,
		TicketType:   models.PayTypeParking,
		Status:       models.TicketCheckedIn,
	}
	require.NoError(t, s.DB.Create(&ticket).Error)

	// Final charge came to 5 (longer stay than the provisional 2).
	in := cashPayment(s, bill.Id, "5")
	in.PaymentType = models.PayTypeParking
	_, err = s.Service.CreatePayment(s.DB, in)
	require.NoError(t, err)

	var checkedOut models.Ticket
	require.NoError(t, s.DB.First(&checkedOut, "id = ?", ticket.Id).Error)
	assert.Equal(t, models.TicketCheckedOut, checkedOut.Status)
	assert.NotNil(t, checkedOut.ExitTime)

	// Bill pinned to the final amount and settled; the excess over the
	// provisional charge is real revenue, not customer credit.
	settled := s.reloadBill(t, bill.Id)
	assert.True(t, settled.Amount.Equal(dec("5")))
	assert.True(t, settled.Outstanding.IsZero())
	assert.Equal(t, models.BillPaid, settled.Status)

	var prepayments []models.CustomerPrepayment
	require.NoError(t, s.DB.Find(&prepayments).Error)
	assert.Empty(t, prepayments)

	s.requireBalancedBooks(t)
}

func TestCreditNotePaymentFlow(t *testing.T) {
	s := newTestSetup(t)

	note, err := s.Service.CreateCreditNote(s.DB, CreateCreditNoteInput{
		CustomerId: s.Customer.Id,
		Amount:     dec("30"),
		Reason:     "damaged stall goods",
	})
	require.NoError(t, err)
	assert.Contains(t, note.CreditNoteNumber, "CRN-")
	assert.True(t, note.Outstanding.Equal(dec("30")))

	contra := s.reloadAccount(t, s.CreditNotesAcct.Id)
	assert.True(t, contra.TotalDebit.Equal(dec("30")))

	// Paying the credit out swaps the journal legs.
	payment, err := s.Service.CreatePayment(s.DB, CreatePaymentInput{
		CustomerId:      s.Customer.Id,
		ReferenceId:     note.Id,
		Amount:          dec("30"),
		PaymentMethod:   "cash",
		PaymentType:     models.PayTypeOther,
		TransactionType: models.PaymentTnxRefund,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RefCreditNote, payment.ReferenceKind)

	var settled models.CreditNote
	require.NoError(t, s.DB.First(&settled, "id = ?", note.Id).Error)
	assert.Equal(t, models.BillPaid, settled.Status)
	assert.True(t, settled.Outstanding.IsZero())

	cash := s.reloadAccount(t, s.CashAccount.Id)
	assert.True(t, cash.TotalCredit.Equal(dec("30")))

	s.requireBalancedBooks(t)
}

func TestApplyPrepaymentFIFO(t *testing.T) {
	s := newTestSetup(t)

	// Two overpayments of 20 and 10 against fully settled bills.
	for _, amount := range []string{"70", "60"} {
		bill := s.rentBill(t)
		_, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, amount))
		require.NoError(t, err)
	}

	var prepayments []models.CustomerPrepayment
	require.NoError(t, s.DB.Order("created_at").Find(&prepayments).Error)
	require.Len(t, prepayments, 2)
	require.True(t, prepayments[0].Amount.Equal(dec("20")))
	require.True(t, prepayments[1].Amount.Equal(dec("10")))

	// A new 25 bill draws 20 from the oldest, then 5 from the next.
	bill, err := s.Service.GenerateBill(s.DB, GenerateBillInput{
		LineItemIds: []string{s.RentItem.Id},
		CustomerId:  s.Customer.Id,
		Type:        models.PayTypeRent,
	})
	require.NoError(t, err)
	require.NoError(t, s.DB.Model(&models.Bill{Id: bill.Id}).Updates(map[string]interface{}{
		"amount": dec("25"), "outstanding": dec("25"),
	}).Error)

	remaining, err := s.Service.ApplyPrepaymentToBill(s.DB, s.Customer.Id, bill.Id)
	require.NoError(t, err)
	assert.True(t, remaining.IsZero(), "remaining %s", remaining)

	settled := s.reloadBill(t, bill.Id)
	assert.Equal(t, models.BillPaid, settled.Status)
	assert.True(t, settled.Outstanding.IsZero())

	require.NoError(t, s.DB.Order("created_at").Find(&prepayments).Error)
	assert.Equal(t, models.PrepaymentUsed, prepayments[0].Status)
	assert.True(t, prepayments[0].RemainingBalance.IsZero())
	assert.Equal(t, models.PrepaymentAvailable, prepayments[1].Status)
	assert.True(t, prepayments[1].RemainingBalance.Equal(dec("5")))

	// Each application left its audit trail.
	applied := prepayments[0].AppliedPayments.Data()
	require.Len(t, applied, 1)
	assert.Equal(t, bill.Id, applied[0].BillId)
	assert.True(t, applied[0].Amount.Equal(dec("20")))

	// Accruals drained by exactly what was applied.
	accruals := s.reloadAccount(t, s.AccrualsAccount.Id)
	assert.True(t, accruals.TotalCredit.Sub(accruals.TotalDebit).Equal(dec("5")))

	s.requireBalancedBooks(t)
}

func TestApplyPrepaymentInsufficient(t *testing.T) {
	s := newTestSetup(t)

	bill := s.rentBill(t)
	_, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "60"))
	require.NoError(t, err)

	// Next 50 bill only has 10 of credit to draw on.
	next := s.rentBill(t)
	remaining, err := s.Service.ApplyPrepaymentToBill(s.DB, s.Customer.Id, next.Id)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("40")), "remaining %s", remaining)

	partial := s.reloadBill(t, next.Id)
	assert.Equal(t, models.BillPartiallyPaid, partial.Status)
	assert.True(t, partial.Outstanding.Equal(dec("40")))

	s.requireBalancedBooks(t)
}
