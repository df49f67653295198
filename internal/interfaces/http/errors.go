package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/recepcion-api/internal/application/dto"
	"github.com/jhoicas/recepcion-api/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT"},
	{domain.ErrProductMismatch, fiber.StatusBadRequest, "PRODUCT_MISMATCH"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrOverReceipt, fiber.StatusConflict, "OVER_RECEIPT"},
	{domain.ErrInvalidStatus, fiber.StatusConflict, "INVALID_STATUS"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInventoryMissing, fiber.StatusConflict, "INVENTORY_MISSING"},
	{domain.ErrReceivedUnderflow, fiber.StatusConflict, "RECEIVED_UNDERFLOW"},
	{domain.ErrAccountNotConfigured, fiber.StatusInternalServerError, "ACCOUNT_NOT_CONFIGURED"},
	{domain.ErrUnbalancedJournal, fiber.StatusInternalServerError, "UNBALANCED_JOURNAL"},
}

// statusFor traduce un error de dominio a status y código HTTP.
// Errores de infraestructura quedan como 500 INTERNAL.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

func (h *GoodsReceiptHandler) writeError(c *fiber.Ctx, op string, err error) error {
	status, code := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("operation", op).Str("kind", string(domain.KindOf(err))).
			Str("company_id", GetCompanyID(c)).Msg("goods receipt request failed")
		if code == "INTERNAL" {
			msg = "error interno"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
