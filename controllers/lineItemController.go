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

type createLineItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" validate:"omitempty,min=1"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Unit        string          `json:"unit" validate:"required"`
	AccountId   string          `json:"account_id" validate:"required"`
}

// CreateLineItem adds a billable item priced against a revenue account.
func CreateLineItem(c *fiber.Ctx) error {
	var req createLineItemRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	if !req.Amount.IsPositive() {
		return &ledger.ValidationError{Msg: "line item amount must be positive"}
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var account models.ControlAccount
	if err := tx.First(&account, "id = ?", req.AccountId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "control account", Id: req.AccountId}
		}
		return err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	item := models.LineItem{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    quantity,
		Amount:      req.Amount,
		Unit:        req.Unit,
		AccountId:   account.Id,
		Status:      "active",
	}
	if err := tx.Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetLineItems lists line items; pass status=all to include retired ones.
func GetLineItems(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	query := tx.Model(&models.LineItem{})
	switch status := c.Query("status", "active"); status {
	case "all":
	default:
		query = query.Where("status = ?", status)
	}

	var items []models.LineItem
	if err := query.Order("name").Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(items)
}

type updateLineItemRequest struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active retired"`
}

// UpdateLineItem reprices or retires a line item. Existing bills keep their
// snapshot; only future bills see the change.
func UpdateLineItem(c *fiber.Ctx) error {
	var req updateLineItemRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var item models.LineItem
	if err := tx.First(&item, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "line item", Id: c.Params("id")}
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return &ledger.ValidationError{Msg: "line item amount must be positive"}
		}
		updates["amount"] = *req.Amount
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return c.JSON(item)
	}

	if err := tx.Model(&item).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(item)
}
