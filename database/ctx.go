package database

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FromCtx returns the request's unit-of-work transaction opened by
// middlewares.RequestTx. Core ledger operations must run inside it so a
// failed step rolls the whole request back.
func FromCtx(c *fiber.Ctx) (*gorm.DB, error) {
	if v := c.Locals("tx"); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx, nil
		}
	}
	return nil, errors.New("request transaction missing")
}
