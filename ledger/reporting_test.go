package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belcit-backend/models"
)

func TestTrialBalance(t *testing.T) {
	s := newTestSetup(t)

	bill := s.rentBill(t)
	_, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "20"))
	require.NoError(t, err)

	report, err := s.Service.TrialBalance(s.DB)
	require.NoError(t, err)
	assert.True(t, report.Balanced)
	assert.True(t, report.TotalDebit.Equal(report.TotalCredit))

	rows := map[string]TrialBalanceRow{}
	for _, row := range report.TrialBalance {
		rows[row.Code] = row
	}

	// Cash holds the 20 received, the trader still owes 30, rent revenue
	// carries the full 50 earned.
	assert.True(t, rows[CodeCashOnHand].Debit.Equal(dec("20")))
	assert.True(t, rows["1100-0001"].Debit.Equal(dec("30")))
	assert.True(t, rows["3002"].Credit.Equal(dec("50")))
}

func TestTransferToAccount(t *testing.T) {
	s := newTestSetup(t)

	// Put some cash in the drawer first.
	bill := s.rentBill(t)
	_, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "50"))
	require.NoError(t, err)

	transfer, err := s.Service.TransferToAccount(s.DB, TransferInput{
		FromAccountId: s.CashAccount.Id,
		ToAccountId:   s.BankAccount.Id,
		Amount:        dec("40"),
		Memo:          "evening banking run",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, transfer.Id)

	cash := s.reloadAccount(t, s.CashAccount.Id)
	assert.True(t, cash.TotalDebit.Sub(cash.TotalCredit).Equal(dec("10")))
	bank := s.reloadAccount(t, s.BankAccount.Id)
	assert.True(t, bank.TotalDebit.Equal(dec("40")))

	s.requireBalancedBooks(t)

	var validation *ValidationError
	_, err = s.Service.TransferToAccount(s.DB, TransferInput{
		FromAccountId: s.CashAccount.Id,
		ToAccountId:   s.BankAccount.Id,
		Amount:        dec("0"),
	})
	require.ErrorAs(t, err, &validation)

	var notFound *NotFoundError
	_, err = s.Service.TransferToAccount(s.DB, TransferInput{
		FromAccountId: "missing",
		ToAccountId:   s.BankAccount.Id,
		Amount:        dec("5"),
	})
	require.ErrorAs(t, err, &notFound)
}

func TestLedgerSummary(t *testing.T) {
	s := newTestSetup(t)

	bill := s.rentBill(t)
	_, err := s.Service.CreatePayment(s.DB, cashPayment(s, bill.Id, "50"))
	require.NoError(t, err)

	page, err := s.Service.LedgerSummary(s.DB, LedgerFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, s.transactionCount(t), page.TotalDocs)
	require.NotEmpty(t, page.Docs)

	// Running balance accumulates debit minus credit in order.
	running := dec("0")
	for _, line := range page.Docs {
		running = running.Add(line.Debit).Sub(line.Credit)
		assert.True(t, line.RunningBalance.Equal(running),
			"running balance drifted at %s: got %s want %s", line.Id, line.RunningBalance, running)
	}
	// Posting batches balance, so the statement nets to zero.
	assert.True(t, running.IsZero())

	// Filtered to one account.
	filtered, err := s.Service.LedgerSummary(s.DB, LedgerFilter{
		AccountId: s.CashAccount.Id,
		Page:      1,
		Limit:     50,
	})
	require.NoError(t, err)
	require.Len(t, filtered.Docs, 1)
	assert.True(t, filtered.Docs[0].Debit.Equal(dec("50")))

	// Filtered by transaction type.
	billsOnly, err := s.Service.LedgerSummary(s.DB, LedgerFilter{
		TransactionType: string(models.TnxBill),
		Page:            1,
		Limit:           50,
	})
	require.NoError(t, err)
	assert.Len(t, billsOnly.Docs, 2)
}
