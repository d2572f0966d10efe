package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	apigraphql "github.com/jhoicas/tienda-api/internal/interfaces/graphql"
)

// OrderHandler expone el comprobante PDF de un pedido.
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido
// @Tags         orders
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	doc, err := h.uc.Receipt(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="pedido-`+id+`.pdf"`)
	return c.Send(doc)
}

// writeError responde dto.ErrorResponse con el mismo código que usa GraphQL.
func writeError(c *fiber.Ctx, err error) error {
	apiErr := apigraphql.Classify(err)
	return c.Status(statusFor(apiErr.Code)).JSON(dto.ErrorResponse{Code: apiErr.Code, Message: apiErr.Message})
}

func statusFor(code string) int {
	switch code {
	case apigraphql.CodeUnauthenticated, apigraphql.CodeInvalidCredential, apigraphql.CodeInvalidOrExpiredToken:
		return fiber.StatusUnauthorized
	case apigraphql.CodeForbidden:
		return fiber.StatusForbidden
	case apigraphql.CodeNotFound:
		return fiber.StatusNotFound
	case apigraphql.CodeDuplicateEmail:
		return fiber.StatusConflict
	case apigraphql.CodeValidation, apigraphql.CodePasswordMismatch, apigraphql.CodeEmptyCart:
		return fiber.StatusBadRequest
	case apigraphql.CodePaymentDeclined:
		return fiber.StatusPaymentRequired
	case apigraphql.CodePaymentGateway:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
