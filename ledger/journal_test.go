package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belcit-backend/models"
)

func TestPostJournalEntryUpdatesTotals(t *testing.T) {
	s := newTestSetup(t)

	lines := []JournalLine{
		{
			AccountId:       s.CashAccount.Id,
			Debit:           dec("25.00"),
			Description:     "cash in",
			TransactionType: models.TnxPayment,
			ReferenceKind:   models.RefPayment,
			ReferenceId:     "ref-1",
		},
		{
			AccountId:       s.RentRevenue.Id,
			Credit:          dec("25.00"),
			Description:     "rent earned",
			TransactionType: models.TnxPayment,
			ReferenceKind:   models.RefPayment,
			ReferenceId:     "ref-1",
		},
	}
	require.NoError(t, s.Service.PostJournalEntry(s.DB, lines))

	cash := s.reloadAccount(t, s.CashAccount.Id)
	assert.True(t, cash.TotalDebit.Equal(dec("25.00")), "cash debit = %s", cash.TotalDebit)
	assert.True(t, cash.TotalCredit.IsZero())

	rent := s.reloadAccount(t, s.RentRevenue.Id)
	assert.True(t, rent.TotalCredit.Equal(dec("25.00")))

	assert.EqualValues(t, 2, s.transactionCount(t))
	s.requireBalancedBooks(t)
}

func TestPostJournalEntryRejectsUnbalanced(t *testing.T) {
	s := newTestSetup(t)

	lines := []JournalLine{
		{AccountId: s.CashAccount.Id, Debit: dec("25.00"), Description: "d", TransactionType: models.TnxPayment, ReferenceKind: models.RefPayment, ReferenceId: "r"},
		{AccountId: s.RentRevenue.Id, Credit: dec("20.00"), Description: "c", TransactionType: models.TnxPayment, ReferenceKind: models.RefPayment, ReferenceId: "r"},
	}
	err := s.Service.PostJournalEntry(s.DB, lines)

	var unbalanced *UnbalancedJournalError
	require.ErrorAs(t, err, &unbalanced)
	assert.True(t, unbalanced.Debit.Equal(dec("25.00")))
	assert.True(t, unbalanced.Credit.Equal(dec("20.00")))

	// Nothing persisted, no totals touched.
	assert.EqualValues(t, 0, s.transactionCount(t))
	cash := s.reloadAccount(t, s.CashAccount.Id)
	assert.True(t, cash.TotalDebit.IsZero())
}

func TestPostJournalEntryRejectsBadLines(t *testing.T) {
	s := newTestSetup(t)

	var validation *ValidationError

	err := s.Service.PostJournalEntry(s.DB, nil)
	require.ErrorAs(t, err, &validation)

	// Both sides set on one line.
	err = s.Service.PostJournalEntry(s.DB, []JournalLine{
		{AccountId: s.CashAccount.Id, Debit: dec("5.00"), Credit: dec("5.00")},
	})
	require.ErrorAs(t, err, &validation)

	// Neither side set.
	err = s.Service.PostJournalEntry(s.DB, []JournalLine{
		{AccountId: s.CashAccount.Id},
	})
	require.ErrorAs(t, err, &validation)

	// Negative amounts never enter the journal; corrections post swapped legs.
	err = s.Service.PostJournalEntry(s.DB, []JournalLine{
		{AccountId: s.CashAccount.Id, Debit: dec("-5.00")},
		{AccountId: s.RentRevenue.Id, Credit: dec("-5.00")},
	})
	require.ErrorAs(t, err, &validation)
}

func TestPostJournalEntryUnknownAccount(t *testing.T) {
	s := newTestSetup(t)

	err := s.Service.PostJournalEntry(s.DB, []JournalLine{
		{AccountId: s.CashAccount.Id, Debit: dec("5.00"), Description: "d", TransactionType: models.TnxPayment, ReferenceKind: models.RefPayment, ReferenceId: "r"},
		{AccountId: "missing-account", Credit: dec("5.00"), Description: "c", TransactionType: models.TnxPayment, ReferenceKind: models.RefPayment, ReferenceId: "r"},
	})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
