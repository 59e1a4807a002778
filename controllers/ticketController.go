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

type checkInRequest struct {
	CustomerId  string   `json:"customer_id" validate:"required"`
	LineItemIds []string `json:"line_item_ids" validate:"required,min=1,dive,required"`
	TicketType  string   `json:"ticket_type" validate:"required,oneof=parking toilet"`
	Description string   `json:"description"`
}

// CheckInTicket opens a ticket and bills the visit in one go. Paying the
// bill later checks the ticket out automatically.
func CheckInTicket(c *fiber.Ctx) error {
	var req checkInRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	bill, err := Ledger.GenerateBill(tx, ledger.GenerateBillInput{
		LineItemIds: req.LineItemIds,
		CustomerId:  req.CustomerId,
		Type:        models.PaymentType(req.TicketType),
		Description: req.Description,
		CreatedBy:   localsString(c, "userID"),
	})
	if err != nil {
		return err
	}

	ticketNumber, err := ledger.GenerateRef(tx, "ticket", ledger.DatePart(), "TKT-", 4)
	if err != nil {
		return err
	}
	ticket := models.Ticket{
		TicketNumber: ticketNumber,
		BillId:       bill.Id,
		TicketType:   models.PaymentType(req.TicketType),
		Status:       models.TicketCheckedIn,
		EntryTime:    time.Now(),
	}
	if err := tx.Create(&ticket).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ticket": ticket,
		"bill":   bill,
	})
}

// GetTickets lists tickets, filterable by status and type.
func GetTickets(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	query := tx.Model(&models.Ticket{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if t := c.Query("ticket_type"); t != "" {
		query = query.Where("ticket_type = ?", t)
	}

	page, limit := pagination(c.QueryInt("page"), c.QueryInt("limit"))
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var tickets []models.Ticket
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tickets).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"docs":       tickets,
		"total_docs": total,
		"page":       page,
		"limit":      limit,
	})
}

// GetTicket returns one ticket by id or ticket number, with its bill.
func GetTicket(c *fiber.Ctx) error {
	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	ref := c.Params("id")
	var ticket models.Ticket
	if err := tx.Where("id = ? OR ticket_number = ?", ref, ref).
		First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ledger.NotFoundError{Entity: "ticket", Id: ref}
		}
		return err
	}

	var bill models.Bill
	if err := tx.First(&bill, "id = ?", ticket.BillId).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return c.JSON(fiber.Map{
		"ticket": ticket,
		"bill":   bill,
	})
}
