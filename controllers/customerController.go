package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"belcit-backend/database"
	"belcit-backend/ledger"
	"belcit-backend/middlewares"
	"belcit-backend/models"
)

type createCustomerRequest struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	PhoneNumber  string `json:"phone_number"`
	IdNumber     string `json:"id_number"`
	CustomerType string `json:"customer_type" validate:"required,oneof=walk-in trader buyer"`
}

// CreateCustomer registers a customer together with a dedicated receivable
// sub-account, so their bills and payments get their own ledger trail.
func CreateCustomer(c *fiber.Ctx) error {
	var req createCustomerRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	code, err := ledger.GenerateRef(tx, "customer-account", "", ledger.CodeAccountsReceivable+"-", 4)
	if err != nil {
		return err
	}
	account := models.ControlAccount{
		Code:        code,
		AccountName: "AR " + req.FirstName + " " + req.LastName,
		AccountType: models.AccountTypeAsset,
	}
	if err := tx.Create(&account).Error; err != nil {
		return err
	}

	customer := models.Customer{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            strings.ToLower(req.Email),
		PhoneNumber:      req.PhoneNumber,
		IdNumber:         req.IdNumber,
		CustomerType:     models.CustomerType(req.CustomerType),
		ControlAccountId: account.Id,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(customer)
}

// GetCustomers lists customers, filterable by type and a name/phone search.
func GetCustomers(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	query := tx.Model(&models.Customer{})
	if t := c.Query("customer_type"); t != "" {
		query = query.Where("customer_type = ?", t)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR phone_number ILIKE ?",
			like, like, like,
		)
	}

	page, limit := pagination(c.QueryInt("page"), c.QueryInt("limit"))
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var customers []models.Customer
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&customers).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"docs":       customers,
		"total_docs": total,
		"page":       page,
		"limit":      limit,
	})
}

// GetCustomer returns one customer with their open bills and prepayments.
func GetCustomer(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "customer", Id: c.Params("id")}
		}
		return err
	}

	var openBills []models.Bill
	if err := tx.Where("customer_id = ? AND status IN ?", customer.Id,
		[]models.BillStatus{models.BillUnpaid, models.BillPartiallyPaid}).
		Order("due_date").Find(&openBills).Error; err != nil {
		return err
	}

	var prepayments []models.CustomerPrepayment
	if err := tx.Where("customer_id = ? AND status = ?", customer.Id, models.PrepaymentAvailable).
		Order("created_at").Find(&prepayments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"customer":    customer,
		"open_bills":  openBills,
		"prepayments": prepayments,
	})
}

type updateCustomerRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number"`
	IdNumber    string `json:"id_number"`
}

// UpdateCustomer edits contact details only; balances and the linked account
// are never writable here.
func UpdateCustomer(c *fiber.Ctx) error {
	var req updateCustomerRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "customer", Id: c.Params("id")}
		}
		return err
	}

	updates := map[string]interface{}{}
	if req.Email != "" {
		updates["email"] = strings.ToLower(req.Email)
	}
	if req.PhoneNumber != "" {
		updates["phone_number"] = req.PhoneNumber
	}
	if req.IdNumber != "" {
		updates["id_number"] = req.IdNumber
	}
	if len(updates) == 0 {
		return c.JSON(customer)
	}

	if err := tx.Model(&customer).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(customer)
}
