package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"belcit-backend/database"
	"belcit-backend/ledger"
	"belcit-backend/middlewares"
	"belcit-backend/models"
)

type createPaymentMethodRequest struct {
	Name             string `json:"name" validate:"required,max=32"`
	Label            string `json:"label" validate:"required"`
	ControlAccountId string `json:"control_account_id"`
	IsDeferred       bool   `json:"is_deferred"`
	Category         string `json:"category" validate:"omitempty,oneof=cash bank-transfer mobile-money other"`
}

// CreatePaymentMethod registers a settlement method. Deferred methods leave
// payments pending until polled.
func CreatePaymentMethod(c *fiber.Ctx) error {
	var req createPaymentMethodRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	if req.ControlAccountId != "" {
		var account models.ControlAccount
		if err := tx.First(&account, "id = ?", req.ControlAccountId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ledger.NotFoundError{Entity: "control account", Id: req.ControlAccountId}
			}
			return err
		}
	}

	method := models.PaymentMethod{
		Name:             req.Name,
		Label:            req.Label,
		ControlAccountId: req.ControlAccountId,
		IsDeferred:       req.IsDeferred,
		Category:         req.Category,
		IsActive:         true,
	}
	if err := tx.Create(&method).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(method)
}

// GetPaymentMethods lists methods; inactive ones only with active=all.
func GetPaymentMethods(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	query := tx.Model(&models.PaymentMethod{})
	if c.Query("active", "true") != "all" {
		query = query.Where("is_active = ?", true)
	}

	var methods []models.PaymentMethod
	if err := query.Order("name").Find(&methods).Error; err != nil {
		return err
	}
	return c.JSON(methods)
}

type updatePaymentMethodRequest struct {
	Label            *string `json:"label"`
	ControlAccountId *string `json:"control_account_id"`
	IsDeferred       *bool   `json:"is_deferred"`
	IsActive         *bool   `json:"is_active"`
}

// UpdatePaymentMethod edits a method's routing or availability.
func UpdatePaymentMethod(c *fiber.Ctx) error {
	var req updatePaymentMethodRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var method models.PaymentMethod
	if err := tx.First(&method, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "payment method", Id: c.Params("id")}
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Label != nil {
		updates["label"] = *req.Label
	}
	if req.ControlAccountId != nil {
		updates["control_account_id"] = *req.ControlAccountId
	}
	if req.IsDeferred != nil {
		updates["is_deferred"] = *req.IsDeferred
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return c.JSON(method)
	}

	if err := tx.Model(&method).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(method)
}
