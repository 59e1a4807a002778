package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"belcit-backend/database"
	"belcit-backend/middlewares"
	"belcit-backend/models"
)

type registerRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Username        string `json:"username" validate:"required,min=3,max=64"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number"`
	Role            string `json:"role" validate:"required,oneof=admin manager cashier"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// Register creates a staff account. Admin only.
func Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Password != req.PasswordConfirm {
		return fiber.NewError(fiber.StatusBadRequest, "passwords do not match")
	}

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var existing models.Staff
	err = tx.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "username or email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	staff := models.Staff{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Username:    strings.ToLower(req.Username),
		Email:       strings.ToLower(req.Email),
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
		Status:      "active",
	}
	staff.SetPassword(req.Password)
	if err := tx.Create(&staff).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(staff)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and returns a signed JWT.
func Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var staff models.Staff
	err := database.DB.Where("username = ?", strings.ToLower(req.Username)).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}
	if staff.Status != "active" {
		return fiber.NewError(fiber.StatusForbidden, "account is disabled")
	}
	if err := staff.ComparePassword(req.Password); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := middlewares.GenerateJWT(staff.Id, staff.Role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":         staff.Id,
			"first_name": staff.FirstName,
			"last_name":  staff.LastName,
			"username":   staff.Username,
			"role":       staff.Role,
		},
	})
}

// Logout acknowledges the logout; bearer tokens are stateless, the client
// discards the token.
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me returns the authenticated staff record.
func Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	tx, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var staff models.Staff
	if err := tx.First(&staff, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "user no longer exists")
		}
		return err
	}
	return c.JSON(staff)
}
