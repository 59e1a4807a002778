package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"belcit-backend/models"
)

// TrialBalanceRow is one account's net position.
type TrialBalanceRow struct {
	Code        string             `json:"code"`
	AccountName string             `json:"account_name"`
	AccountType models.AccountType `json:"account_type"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
}

// TrialBalanceReport nets every account's running totals into a debit or
// credit column and checks the grand totals agree.
type TrialBalanceReport struct {
	TrialBalance []TrialBalanceRow `json:"trial_balance"`
	TotalDebit   decimal.Decimal   `json:"total_debit"`
	TotalCredit  decimal.Decimal   `json:"total_credit"`
	Balanced     bool              `json:"balanced"`
}

// TrialBalance derives the trial balance from stored control-account totals.
func (s *Service) TrialBalance(tx *gorm.DB) (*TrialBalanceReport, error) {
	var accounts []models.ControlAccount
	if err := tx.Order("code").Find(&accounts).Error; err != nil {
		return nil, err
	}

	report := &TrialBalanceReport{TrialBalance: make([]TrialBalanceRow, 0, len(accounts))}
	for _, account := range accounts {
		net := account.TotalDebit.Sub(account.TotalCredit)
		row := TrialBalanceRow{
			Code:        account.Code,
			AccountName: account.AccountName,
			AccountType: account.AccountType,
		}
		if net.IsPositive() {
			row.Debit = net
		} else {
			row.Credit = net.Abs()
		}
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
		report.TrialBalance = append(report.TrialBalance, row)
	}
	report.Balanced = report.TotalDebit.Equal(report.TotalCredit)

	return report, nil
}

// LedgerFilter narrows the ledger summary; zero values mean "all".
type LedgerFilter struct {
	AccountId       string
	StartDate       *time.Time
	EndDate         *time.Time
	TransactionType string
	Page            int
	Limit           int
}

// StatementLine is one ledger-summary row with the running balance so far.
type StatementLine struct {
	Id              string                 `json:"id"`
	Date            time.Time              `json:"date"`
	Account         string                 `json:"account"`
	AccountId       string                 `json:"account_id"`
	Description     string                 `json:"description"`
	TransactionType models.TransactionType `json:"transaction_type"`
	ReferenceId     string                 `json:"reference_id"`
	SourceRef       string                 `json:"source_ref"`
	Debit           decimal.Decimal        `json:"debit"`
	Credit          decimal.Decimal        `json:"credit"`
	RunningBalance  decimal.Decimal        `json:"running_balance"`
}

// LedgerSummaryPage is a page of statement lines.
type LedgerSummaryPage struct {
	Docs       []StatementLine `json:"docs"`
	TotalDocs  int64           `json:"total_docs"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// LedgerSummary returns a time-ordered statement with the running balance
// streamed as debit minus credit in transaction-date order.
func (s *Service) LedgerSummary(tx *gorm.DB, filter LedgerFilter) (*LedgerSummaryPage, error) {
	query := tx.Model(&models.Transaction{}).Preload("Account")
	if filter.AccountId != "" && filter.AccountId != "all" {
		query = query.Where("account_id = ?", filter.AccountId)
	}
	if filter.StartDate != nil {
		query = query.Where("tnx_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("tnx_date <= ?", *filter.EndDate)
	}
	if filter.TransactionType != "" && filter.TransactionType != "all" {
		query = query.Where("transaction_type = ?", filter.TransactionType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}

	var transactions []models.Transaction
	err := query.Order("tnx_date, created_at").
		Offset((page - 1) * limit).Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	runningBalance := decimal.Zero
	docs := make([]StatementLine, 0, len(transactions))
	for _, t := range transactions {
		runningBalance = runningBalance.Add(t.Debit).Sub(t.Credit)
		docs = append(docs, StatementLine{
			Id:              t.Id,
			Date:            t.PostDate,
			Account:         t.Account.AccountName,
			AccountId:       t.AccountId,
			Description:     t.Description,
			TransactionType: t.TransactionType,
			ReferenceId:     t.ReferenceId,
			SourceRef:       t.SourceRef,
			Debit:           t.Debit,
			Credit:          t.Credit,
			RunningBalance:  runningBalance,
		})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &LedgerSummaryPage{
		Docs:       docs,
		TotalDocs:  total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// TransferInput moves money between two control accounts.
type TransferInput struct {
	FromAccountId string
	ToAccountId   string
	Amount        decimal.Decimal
	Memo          string
	CreatedBy     string
}

// TransferToAccount records a Transfer and posts its offsetting two-line
// journal (debit destination, credit source).
func (s *Service) TransferToAccount(tx *gorm.DB, in TransferInput) (*models.Transfer, error) {
	if in.FromAccountId == "" || in.ToAccountId == "" {
		return nil, &ValidationError{Msg: "fromAccountId and toAccountId are required"}
	}
	if !in.Amount.IsPositive() {
		return nil, &ValidationError{Msg: "transfer amount must be positive"}
	}

	var from, to models.ControlAccount
	if err := tx.First(&from, "id = ?", in.FromAccountId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "from account", Id: in.FromAccountId}
		}
		return nil, err
	}
	if err := tx.First(&to, "id = ?", in.ToAccountId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "to account", Id: in.ToAccountId}
		}
		return nil, err
	}

	transfer := models.Transfer{
		FromAccountId: from.Id,
		ToAccountId:   to.Id,
		Amount:        in.Amount,
		CurrencyCode:  models.BaseCurrency,
		TransferDate:  time.Now(),
		CreatedBy:     in.CreatedBy,
		Memo:          in.Memo,
	}
	if err := tx.Create(&transfer).Error; err != nil {
		return nil, err
	}

	description := "Transfer from " + from.AccountName + " to " + to.AccountName
	lines := []JournalLine{
		{
			AccountId:       to.Id,
			Debit:           transfer.Amount,
			Description:     description,
			TransactionType: models.TnxTransfer,
			ReferenceKind:   models.RefTransfer,
			ReferenceId:     transfer.Id,
		},
		{
			AccountId:       from.Id,
			Credit:          transfer.Amount,
			Description:     description,
			TransactionType: models.TnxTransfer,
			ReferenceKind:   models.RefTransfer,
			ReferenceId:     transfer.Id,
		},
	}
	if err := s.PostJournalEntry(tx, lines); err != nil {
		return nil, err
	}

	return &transfer, nil
}
