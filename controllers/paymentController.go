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

type createPaymentRequest struct {
	CustomerId       string           `json:"customer_id" validate:"required"`
	ReferenceId      string           `json:"reference_id" validate:"required"`
	Amount           decimal.Decimal  `json:"amount" validate:"required"`
	FxAmount         *decimal.Decimal `json:"fx_amount"`
	FxRate           *decimal.Decimal `json:"fx_rate"`
	FxCurrencyCode   *string          `json:"fx_currency_code" validate:"omitempty,len=3"`
	PaymentMethod    string           `json:"payment_method" validate:"required"`
	PaymentType      string           `json:"payment_type" validate:"required"`
	TransactionType  string           `json:"transaction_type" validate:"required"`
	ControlAccountId string           `json:"control_account_id"`
}

// CreatePayment records a payment against a bill or credit note. Instant
// methods settle immediately; deferred ones stay pending until polled.
func CreatePayment(c *fiber.Ctx) error {
	var req createPaymentRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	payment, err := Ledger.CreatePayment(tx, ledger.CreatePaymentInput{
		CustomerId:       req.CustomerId,
		ReferenceId:      req.ReferenceId,
		Amount:           req.Amount,
		FxAmount:         req.FxAmount,
		FxRate:           req.FxRate,
		FxCurrencyCode:   req.FxCurrencyCode,
		PaymentMethod:    req.PaymentMethod,
		PaymentType:      models.PaymentType(req.PaymentType),
		TransactionType:  req.TransactionType,
		ControlAccountId: req.ControlAccountId,
		Cashier:          localsString(c, "userID"),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// GetPayments lists payments with status/method/type/customer/date filters.
func GetPayments(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	query := tx.Model(&models.Payment{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if method := c.Query("payment_method"); method != "" {
		query = query.Where("payment_method = ?", method)
	}
	if pType := c.Query("payment_type"); pType != "" {
		query = query.Where("payment_type = ?", pType)
	}
	if customerId := c.Query("customer_id"); customerId != "" {
		query = query.Where("customer_id = ?", customerId)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("payment_number ILIKE ? OR source_ref ILIKE ?", like, like)
	}
	if from := c.Query("start_date"); from != "" {
		if t, perr := time.Parse("2006-01-02", from); perr == nil {
			query = query.Where("payment_date >= ?", t)
		}
	}
	if to := c.Query("end_date"); to != "" {
		if t, perr := time.Parse("2006-01-02", to); perr == nil {
			query = query.Where("payment_date < ?", t.AddDate(0, 0, 1))
		}
	}

	page, limit := pagination(c.QueryInt("page"), c.QueryInt("limit"))
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&payments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"docs":       payments,
		"total_docs": total,
		"page":       page,
		"limit":      limit,
	})
}

// GetPayment returns one payment by id or payment number.
func GetPayment(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	ref := c.Params("id")
	var payment models.Payment
	if err := tx.Where("id = ? OR payment_number = ?", ref, ref).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "payment", Id: ref}
		}
		return err
	}
	return c.JSON(payment)
}

// PollPayment confirms a deferred payment: if still pending it is marked
// paid and posted. Safe to call repeatedly.
func PollPayment(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	payment, err := Ledger.PollPayment(tx, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(payment)
}

type reversePaymentRequest struct {
	Reason          string          `json:"reason" validate:"required"`
	CorrectedAmount decimal.Decimal `json:"corrected_amount"` // zero means full reversal
	Type            string          `json:"type" validate:"required,oneof=reversal refund"`
}

// ReversePayment undoes a paid payment with compensating journal entries.
func ReversePayment(c *fiber.Ctx) error {
	var req reversePaymentRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	result, err := Ledger.ReversePayment(tx, ledger.ReversePaymentInput{
		PaymentId:       c.Params("id"),
		Reason:          req.Reason,
		CorrectedAmount: req.CorrectedAmount,
		Type:            req.Type,
		ReversedBy:      localsString(c, "userID"),
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetPrepayments lists customer prepayments, filterable by customer and status.
func GetPrepayments(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	query := tx.Model(&models.CustomerPrepayment{})
	if customerId := c.Query("customer_id"); customerId != "" {
		query = query.Where("customer_id = ?", customerId)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var prepayments []models.CustomerPrepayment
	if err := query.Order("created_at").Find(&prepayments).Error; err != nil {
		return err
	}
	return c.JSON(prepayments)
}
