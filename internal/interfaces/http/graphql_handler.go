package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	apigraphql "github.com/jhoicas/tienda-api/internal/interfaces/graphql"
	"github.com/jhoicas/tienda-api/pkg/config"
)

// sessionMaxAge vida de la cookie de sesión: 1 año.
const sessionMaxAge = 365 * 24 * 60 * 60

// GraphQLHandler ejecuta operaciones GraphQL y aplica a la respuesta la cookie de sesión
// que pidan las mutaciones (signup, signin, resetPassword, signout).
type GraphQLHandler struct {
	schema graphql.Schema
	cookie config.CookieConfig
}

// NewGraphQLHandler construye el handler.
func NewGraphQLHandler(schema graphql.Schema, cookie config.CookieConfig) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, cookie: cookie}
}

// Post ejecuta una operación enviada como JSON {query, variables, operationName}.
// POST /graphql
func (h *GraphQLHandler) Post(c *fiber.Ctx) error {
	var req apigraphql.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return h.execute(c, req)
}

// Get ejecuta una query enviada en la URL. Las mutaciones sólo se aceptan por POST.
// GET /graphql?query=...&variables=...&operationName=...
func (h *GraphQLHandler) Get(c *fiber.Ctx) error {
	req := apigraphql.Request{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if raw := c.Query("variables"); raw != "" {
		if err := c.App().Config().JSONDecoder([]byte(raw), &req.Variables); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_VARIABLES", Message: "variables no es JSON válido"})
		}
	}
	if isMutation(req.Query, req.OperationName) {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.ErrorResponse{Code: "METHOD_NOT_ALLOWED", Message: "las mutaciones requieren POST"})
	}
	return h.execute(c, req)
}

func (h *GraphQLHandler) execute(c *fiber.Ctx, req apigraphql.Request) error {
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query requerida"})
	}
	ctx, sess := apigraphql.WithSession(c.UserContext())
	result := apigraphql.Execute(ctx, h.schema, req)

	if token, ok := sess.Issued(); ok {
		c.Cookie(h.sessionCookie(token, time.Time{}, sessionMaxAge))
	} else if sess.Cleared() {
		c.Cookie(h.sessionCookie("", time.Unix(0, 0), 0))
	}
	return c.JSON(result)
}

func (h *GraphQLHandler) sessionCookie(value string, expires time.Time, maxAge int) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   maxAge,
		Expires:  expires,
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// isMutation indica si la operación que se ejecutaría es una mutación.
// Una query que no parsea no es mutación: el error lo reporta graphql.Do.
func isMutation(query, operationName string) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}
