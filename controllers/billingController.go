package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"belcit-backend/database"
	"belcit-backend/ledger"
	"belcit-backend/middlewares"
	"belcit-backend/models"
)

type createBillRequest struct {
	LineItemIds []string `json:"line_item_ids" validate:"required,min=1,dive,required"`
	CustomerId  string   `json:"customer_id" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=parking toilet rent fine deposit other"`
	Description string   `json:"description"`
	DueDate     *string  `json:"due_date"` // RFC 3339; defaults by bill type
}

// CreateBill generates a bill from priced line items and posts its issuance
// journal in the request transaction.
func CreateBill(c *fiber.Ctx) error {
	var req createBillRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	in := ledger.GenerateBillInput{
		LineItemIds: req.LineItemIds,
		CustomerId:  req.CustomerId,
		Type:        models.PaymentType(req.Type),
		Description: req.Description,
		CreatedBy:   localsString(c, "userID"),
	}
	if req.DueDate != nil {
		due, perr := time.Parse(time.RFC3339, *req.DueDate)
		if perr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "due_date must be RFC 3339")
		}
		in.DueDate = &due
	}

	bill, err := Ledger.GenerateBill(tx, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(bill)
}

// GetBills lists bills with status/type/customer/date filters and a
// bill-number search.
func GetBills(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	query := tx.Model(&models.Bill{}).Preload("Customer")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if billType := c.Query("type"); billType != "" {
		query = query.Where("type = ?", billType)
	}
	if customerId := c.Query("customer_id"); customerId != "" {
		query = query.Where("customer_id = ?", customerId)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("bill_number ILIKE ?", "%"+search+"%")
	}
	if from := c.Query("start_date"); from != "" {
		if t, perr := time.Parse("2006-01-02", from); perr == nil {
			query = query.Where("date_issued >= ?", t)
		}
	}
	if to := c.Query("end_date"); to != "" {
		if t, perr := time.Parse("2006-01-02", to); perr == nil {
			query = query.Where("date_issued < ?", t.AddDate(0, 0, 1))
		}
	}

	page, limit := pagination(c.QueryInt("page"), c.QueryInt("limit"))
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var bills []models.Bill
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&bills).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"docs":       bills,
		"total_docs": total,
		"page":       page,
		"limit":      limit,
	})
}

// GetBill looks a bill up by id or by bill number.
func GetBill(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	ref := c.Params("id")
	var bill models.Bill
	if err := tx.Preload("Customer").
		Where("id = ? OR bill_number = ?", ref, ref).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "bill", Id: ref}
		}
		return err
	}
	return c.JSON(bill)
}

// ApplyPrepayments draws the customer's available prepayments into the bill,
// oldest first, and reports what is still owed.
func ApplyPrepayments(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var bill models.Bill
	if err := tx.First(&bill, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "bill", Id: c.Params("id")}
		}
		return err
	}

	remaining, err := Ledger.ApplyPrepaymentToBill(tx, bill.CustomerId, bill.Id)
	if err != nil {
		return err
	}

	if err := tx.First(&bill, "id = ?", bill.Id).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"bill":             bill,
		"amount_still_due": remaining,
	})
}

func localsString(c *fiber.Ctx, key string) string {
	v, _ := c.Locals(key).(string)
	return v
}
