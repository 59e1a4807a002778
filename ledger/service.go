package ledger

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"belcit-backend/models"
)

// System account codes resolved at startup. Seeded by database.Seed.
const (
	CodeCashOnHand          = "1000"
	CodeAccountsReceivable  = "1100"
	CodeCustomerPrepayments = "2200"
	CodeCreditNotesIssued   = "6000"
)

// Accounts maps logical account roles to resolved control-account ids.
// Resolved once at startup; the core never falls back to name lookups.
type Accounts struct {
	CashOnHand  string // destination for cash payments with no explicit account
	Accruals    string // customer prepayments (excess-payment holding account)
	CreditNotes string // contra-income account debited when a credit note is issued
}

// ResolveAccounts loads the role accounts from the seeded chart of accounts.
func ResolveAccounts(db *gorm.DB) (Accounts, error) {
	var accounts Accounts
	lookup := func(code string) (string, error) {
		var acc models.ControlAccount
		if err := db.Where("code = ?", code).First(&acc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", &NotFoundError{Entity: "control account with code " + code}
			}
			return "", err
		}
		return acc.Id, nil
	}

	var err error
	if accounts.CashOnHand, err = lookup(CodeCashOnHand); err != nil {
		return accounts, err
	}
	if accounts.Accruals, err = lookup(CodeCustomerPrepayments); err != nil {
		return accounts, err
	}
	if accounts.CreditNotes, err = lookup(CodeCreditNotesIssued); err != nil {
		return accounts, err
	}
	return accounts, nil
}

// Service is the accounting core. All methods take an explicit *gorm.DB
// transaction handle; the boundary opens and commits it exactly once per
// request.
type Service struct {
	accounts Accounts
	log      zerolog.Logger
}

func New(accounts Accounts) *Service {
	return &Service{
		accounts: accounts,
		log:      log.With().Str("component", "ledger").Logger(),
	}
}
