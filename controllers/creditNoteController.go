package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"belcit-backend/database"
	"belcit-backend/ledger"
	"belcit-backend/middlewares"
	"belcit-backend/models"
)

type createCreditNoteRequest struct {
	CustomerId string          `json:"customer_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
	Reason     string          `json:"reason" validate:"required"`
}

// CreateCreditNote issues customer credit and posts its journal entry.
func CreateCreditNote(c *fiber.Ctx) error {
	var req createCreditNoteRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	note, err := Ledger.CreateCreditNote(tx, ledger.CreateCreditNoteInput{
		CustomerId: req.CustomerId,
		Amount:     req.Amount,
		Reason:     req.Reason,
		CreatedBy:  localsString(c, "userID"),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// GetCreditNotes lists credit notes, filterable by customer and status.
func GetCreditNotes(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	query := tx.Model(&models.CreditNote{})
	if customerId := c.Query("customer_id"); customerId != "" {
		query = query.Where("customer_id = ?", customerId)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var notes []models.CreditNote
	if err := query.Order("created_at DESC").Find(&notes).Error; err != nil {
		return err
	}
	return c.JSON(notes)
}

// GetCreditNote returns one credit note by id or number.
func GetCreditNote(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	ref := c.Params("id")
	var note models.CreditNote
	if err := tx.Where("id = ? OR credit_note_number = ?", ref, ref).
		First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "credit note", Id: ref}
		}
		return err
	}
	return c.JSON(note)
}
