package middlewares

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"belcit-backend/ledger"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Typed ledger errors
	var nf *ledger.NotFoundError
	if errors.As(err, &nf) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": nf.Error()})
	}
	var ve *ledger.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": ve.Error()})
	}
	var cf *ledger.ConflictError
	if errors.As(err, &cf) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": cf.Error()})
	}
	var ub *ledger.UnbalancedJournalError
	if errors.As(err, &ub) {
		// An unbalanced batch reaching this point means a posting bug, not
		// a bad request. The transaction has already been rolled back.
		log.Error().
			Str("total_debit", ub.Debit.String()).
			Str("total_credit", ub.Credit.String()).
			Msg("unbalanced journal entry rejected")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "journal entry could not be posted",
		})
	}

	// 3) Request validation errors (422 + per-field info)
	if ves, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ves))
		for _, fe := range ves {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 4) Unknown errors (500)
	log.Error().Err(err).Str("path", c.Path()).Msg("internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
