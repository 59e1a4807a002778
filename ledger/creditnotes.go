package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"belcit-backend/models"
)

// CreateCreditNoteInput describes credit issued to a customer outside the
// billing flow (goodwill, billing error, returned deposit).
type CreateCreditNoteInput struct {
	CustomerId string
	Amount     decimal.Decimal
	Reason     string
	CreatedBy  string
}

// CreateCreditNote records a CreditNote and posts its issuance journal:
// debit the credit-notes contra account, credit the customer's receivable
// account. The note starts fully outstanding; payments settle it with the
// legs swapped relative to a bill.
func (s *Service) CreateCreditNote(tx *gorm.DB, in CreateCreditNoteInput) (*models.CreditNote, error) {
	if !in.Amount.IsPositive() {
		return nil, &ValidationError{Msg: "credit note amount must be positive"}
	}
	if in.Reason == "" {
		return nil, &ValidationError{Msg: "credit note reason is required"}
	}

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", in.CustomerId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "customer", Id: in.CustomerId}
		}
		return nil, err
	}

	noteNumber, err := GenerateRef(tx, "credit-note", DatePart(), "CRN-", 4)
	if err != nil {
		return nil, err
	}

	note := models.CreditNote{
		CreditNoteNumber: noteNumber,
		CustomerId:       customer.Id,
		Amount:           in.Amount,
		Outstanding:      in.Amount,
		Status:           models.BillUnpaid,
		Reason:           in.Reason,
		CreatedBy:        in.CreatedBy,
	}
	if err := tx.Create(&note).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	lines := []JournalLine{
		{
			AccountId:       s.accounts.CreditNotes,
			Debit:           in.Amount,
			Description:     "Credit note issued: " + in.Reason,
			SourceRef:       noteNumber,
			TransactionType: models.TnxCreditNote,
			ReferenceKind:   models.RefCreditNote,
			ReferenceId:     note.Id,
			TnxDate:         now,
		},
		{
			AccountId:       customer.ControlAccountId,
			Credit:          in.Amount,
			Description:     "Credit note issued: " + in.Reason,
			SourceRef:       noteNumber,
			TransactionType: models.TnxCreditNote,
			ReferenceKind:   models.RefCreditNote,
			ReferenceId:     note.Id,
			TnxDate:         now,
		},
	}
	if err := s.PostJournalEntry(tx, lines); err != nil {
		return nil, err
	}

	return &note, nil
}
