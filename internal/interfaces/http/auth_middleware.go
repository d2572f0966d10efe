package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/authz"
)

// SessionCookie nombre de la cookie que transporta el token de sesión.
const SessionCookie = "token"

// IdentityMiddleware resuelve el Principal de la petición y lo deja en c.UserContext().
// Lee la cookie de sesión y, si no existe, el header Authorization: Bearer <token>.
// Nunca corta la petición: sin token válido el principal es anónimo.
func IdentityMiddleware(resolver *auth.IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := resolver.Resolve(c.UserContext(), sessionToken(c))
		c.SetUserContext(authz.WithPrincipal(c.UserContext(), p))
		return c.Next()
	}
}

func sessionToken(c *fiber.Ctx) string {
	if tok := c.Cookies(SessionCookie); tok != "" {
		return tok
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetUserID devuelve el UserID del principal (vacío si es anónimo).
func GetUserID(c *fiber.Ctx) string {
	return authz.FromContext(c.UserContext()).UserID
}
