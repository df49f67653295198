package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/recepcion-api/internal/application/dto"
	"github.com/jhoicas/recepcion-api/internal/application/receiving"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/pkg/logger"
)

// GoodsReceiptHandler maneja las peticiones HTTP de notas de recepción (protegido).
type GoodsReceiptHandler struct {
	uc       *receiving.GoodsReceiptUseCase
	validate *validator.Validate
	log      *logger.Logger
}

// NewGoodsReceiptHandler construye el handler.
func NewGoodsReceiptHandler(uc *receiving.GoodsReceiptUseCase, log *logger.Logger) *GoodsReceiptHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &GoodsReceiptHandler{uc: uc, validate: validator.New(), log: log.Component("http")}
}

// Create godoc
// @Summary      Registrar recepción de mercancía
// @Tags         goods-receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGoodsReceiptRequest  true  "orden, bodega y líneas recibidas"
// @Success      201   {object}  dto.GoodsReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/goods-receipts [post]
func (h *GoodsReceiptHandler) Create(c *fiber.Ctx) error {
	companyID, userID, ok := h.identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.CreateGoodsReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.Create(c.Context(), companyID, userID, in)
	if err != nil {
		return h.writeError(c, receiving.OpCreate, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddCost godoc
// @Summary      Agregar costo adicional a una recepción
// @Description  Registra el costo y su asiento; si el costo aterrizado no puede recalcularse
//
//	responde 201 con landed_cost_warning.
//
// @Tags         goods-receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la recepción"
// @Param        body  body  dto.AddCostRequest  true  "tipo, monto y descripción"
// @Success      201   {object}  dto.AddCostResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id}/costs [post]
func (h *GoodsReceiptHandler) AddCost(c *fiber.Ctx) error {
	companyID, userID, ok := h.identity(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Params("id")
	if err := h.validate.Var(id, "required,uuid"); err != nil {
		return invalidID(c)
	}
	var in dto.AddCostRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return validationError(c, err)
	}
	out, err := h.uc.AddCost(c.Context(), companyID, userID, id, in)
	if err != nil {
		return h.writeError(c, receiving.OpAddCost, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Cancel godoc
// @Summary      Anular recepción
// @Tags         goods-receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.GoodsReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id}/cancel [post]
func (h *GoodsReceiptHandler) Cancel(c *fiber.Ctx) error {
	companyID, userID, ok := h.identity(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Params("id")
	if err := h.validate.Var(id, "required,uuid"); err != nil {
		return invalidID(c)
	}
	out, err := h.uc.Cancel(c.Context(), companyID, userID, id)
	if err != nil {
		return h.writeError(c, receiving.OpCancel, err)
	}
	return c.JSON(out)
}

// GetLandedCost godoc
// @Summary      Costo aterrizado de una recepción
// @Tags         goods-receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.LandedCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id}/landed-cost [get]
func (h *GoodsReceiptHandler) GetLandedCost(c *fiber.Ctx) error {
	companyID, _, ok := h.identity(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Params("id")
	if err := h.validate.Var(id, "required,uuid"); err != nil {
		return invalidID(c)
	}
	out, err := h.uc.GetLandedCost(c.Context(), companyID, id)
	if err != nil {
		return h.writeError(c, receiving.OpGetLandedCost, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar recepciones
// @Tags         goods-receipts
// @Security     Bearer
// @Produce      json
// @Param        purchase_order_id  query  string  false  "Filtrar por orden de compra"
// @Success      200  {object}  dto.ListResponse[dto.GoodsReceiptResponse]
// @Router       /api/goods-receipts [get]
func (h *GoodsReceiptHandler) List(c *fiber.Ctx) error {
	companyID, _, ok := h.identity(c)
	if !ok {
		return unauthorized(c)
	}
	poID := c.Query("purchase_order_id")
	if poID != "" {
		if err := h.validate.Var(poID, "uuid"); err != nil {
			return invalidID(c)
		}
	}
	out, err := h.uc.List(c.Context(), companyID, poID)
	if err != nil {
		return h.writeError(c, "list", err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener recepción
// @Tags         goods-receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.GoodsReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id} [get]
func (h *GoodsReceiptHandler) GetByID(c *fiber.Ctx) error {
	companyID, _, ok := h.identity(c)
	if !ok {
		return unauthorized(c)
	}
	id := c.Params("id")
	if err := h.validate.Var(id, "required,uuid"); err != nil {
		return invalidID(c)
	}
	out, err := h.uc.GetByID(c.Context(), companyID, id)
	if err != nil {
		return h.writeError(c, "get", err)
	}
	return c.JSON(out)
}

func (h *GoodsReceiptHandler) identity(c *fiber.Ctx) (companyID, userID string, ok bool) {
	companyID, userID = GetCompanyID(c), GetUserID(c)
	return companyID, userID, companyID != "" && userID != ""
}

func unauthorized(c *fiber.Ctx) error {
	return denyAuth(c, "UNAUTHORIZED", fmt.Errorf("%w: sesión sin usuario o empresa", domain.ErrUnauthorized))
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
}

// validationError arma un mensaje con los campos que fallaron (ej: "Lines[0].ProductID: uuid").
func validationError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.StructNamespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		fields = append(fields, ns+": "+fe.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: strings.Join(fields, ", ")})
}
