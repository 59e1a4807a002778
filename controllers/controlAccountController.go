package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"belcit-backend/database"
	"belcit-backend/ledger"
	"belcit-backend/middlewares"
	"belcit-backend/models"
)

type createAccountRequest struct {
	Code        string `json:"code" validate:"required,max=16"`
	AccountName string `json:"account_name" validate:"required"`
	AccountType string `json:"account_type" validate:"required"`
}

// CreateControlAccount adds a non-system account to the chart of accounts.
func CreateControlAccount(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	accountType := models.AccountType(req.AccountType)
	if !accountType.Valid() {
		return &ledger.ValidationError{Msg: "invalid account type " + req.AccountType}
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var existing models.ControlAccount
	err = tx.Where("code = ?", req.Code).First(&existing).Error
	if err == nil {
		return &ledger.ConflictError{Msg: "account code already in use"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	account := models.ControlAccount{
		Code:        req.Code,
		AccountName: req.AccountName,
		AccountType: accountType,
	}
	if err := tx.Create(&account).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// GetControlAccounts lists the chart of accounts, filterable by type.
func GetControlAccounts(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	query := tx.Model(&models.ControlAccount{})
	if t := c.Query("account_type"); t != "" {
		query = query.Where("account_type = ?", t)
	}

	var accounts []models.ControlAccount
	if err := query.Order("code").Find(&accounts).Error; err != nil {
		return err
	}
	return c.JSON(accounts)
}

// GetTrialBalance nets every account into debit/credit columns.
func GetTrialBalance(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	report, err := Ledger.TrialBalance(tx)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// GetLedgerSummary returns a paged statement with running balances.
func GetLedgerSummary(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	filter := ledger.LedgerFilter{
		AccountId:       c.Query("account_id"),
		TransactionType: c.Query("transaction_type"),
	}
	filter.Page, filter.Limit = pagination(c.QueryInt("page"), c.QueryInt("limit"))
	if from := c.Query("start_date"); from != "" {
		if t, perr := time.Parse("2006-01-02", from); perr == nil {
			filter.StartDate = &t
		}
	}
	if to := c.Query("end_date"); to != "" {
		if t, perr := time.Parse("2006-01-02", to); perr == nil {
			end := t.AddDate(0, 0, 1)
			filter.EndDate = &end
		}
	}

	page, err := Ledger.LedgerSummary(tx, filter)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

type transferRequest struct {
	FromAccountId string          `json:"from_account_id" validate:"required"`
	ToAccountId   string          `json:"to_account_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Memo          string          `json:"memo"`
}

// TransferToAccount moves money between two control accounts.
func TransferToAccount(c *fiber.Ctx) error {
	var req transferRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	transfer, err := Ledger.TransferToAccount(tx, ledger.TransferInput{
		FromAccountId: req.FromAccountId,
		ToAccountId:   req.ToAccountId,
		Amount:        req.Amount,
		Memo:          req.Memo,
		CreatedBy:     localsString(c, "userID"),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(transfer)
}
