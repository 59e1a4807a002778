package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"belcit-backend/models"
)

// JournalLine is one debit or credit leg of a posting batch.
type JournalLine struct {
	AccountId       string
	Debit           decimal.Decimal
	Credit          decimal.Decimal
	Description     string
	SourceRef       string
	TransactionType models.TransactionType
	ReferenceKind   models.ReferenceKind
	ReferenceId     string
	TnxDate         time.Time
}

// PostJournalEntry validates that the batch balances, persists every line as
// a Transaction and bumps each referenced control account's running totals.
// It is the sole writer of Transaction rows and the sole mutator of
// ControlAccount totals. Runs inside the caller's transaction; on error the
// caller must abort so no entries are partially applied.
func (s *Service) PostJournalEntry(tx *gorm.DB, lines []JournalLine) error {
	if len(lines) == 0 {
		return &ValidationError{Msg: "journal batch is empty"}
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range lines {
		debitSet := l.Debit.IsPositive()
		creditSet := l.Credit.IsPositive()
		if debitSet == creditSet || l.Debit.IsNegative() || l.Credit.IsNegative() {
			return &ValidationError{Msg: "journal line must have exactly one of debit/credit positive"}
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		err := &UnbalancedJournalError{Debit: totalDebit, Credit: totalCredit}
		s.log.Error().
			Str("debit", totalDebit.StringFixed(2)).
			Str("credit", totalCredit.StringFixed(2)).
			Msg("rejected unbalanced journal batch")
		return err
	}

	now := time.Now()
	records := make([]models.Transaction, 0, len(lines))
	for _, l := range lines {
		tnxDate := l.TnxDate
		if tnxDate.IsZero() {
			tnxDate = now
		}
		records = append(records, models.Transaction{
			AccountId:       l.AccountId,
			Description:     l.Description,
			Debit:           l.Debit,
			Credit:          l.Credit,
			SourceRef:       l.SourceRef,
			ReferenceId:     l.ReferenceId,
			ReferenceKind:   l.ReferenceKind,
			TransactionType: l.TransactionType,
			TnxDate:         tnxDate,
			PostDate:        now,
		})
	}

	if err := tx.Create(&records).Error; err != nil {
		return err
	}

	for _, l := range lines {
		var res *gorm.DB
		if l.Debit.IsPositive() {
			res = tx.Model(&models.ControlAccount{}).
				Where("id = ?", l.AccountId).
				UpdateColumn("total_debit", gorm.Expr("total_debit + ?", l.Debit))
		} else {
			res = tx.Model(&models.ControlAccount{}).
				Where("id = ?", l.AccountId).
				UpdateColumn("total_credit", gorm.Expr("total_credit + ?", l.Credit))
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Entity: "control account", Id: l.AccountId}
		}
	}

	return nil
}
