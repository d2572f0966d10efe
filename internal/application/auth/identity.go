package auth

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-api/internal/application/authz"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/metrics"
)

// TokenVerifier valida un token de sesión y devuelve el userID.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// IdentityResolver construye el Principal de cada petición a partir del token.
// Nunca falla: un token ausente o inválido produce un principal anónimo.
type IdentityResolver struct {
	verifier TokenVerifier
	users    repository.UserRepository
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewIdentityResolver construye el resolver. m puede ser nil.
func NewIdentityResolver(verifier TokenVerifier, users repository.UserRepository, m *metrics.Metrics, log zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{verifier: verifier, users: users, metrics: m, log: log}
}

// Resolve verifica el token y carga al usuario.
//
//	token vacío o inválido → anónimo
//	usuario inexistente    → anónimo
//	error del store        → principal con UserID y sin permisos
func (r *IdentityResolver) Resolve(ctx context.Context, token string) authz.Principal {
	if token == "" {
		return authz.Anonymous()
	}
	userID, err := r.verifier.Verify(token)
	if err != nil {
		r.metrics.AuthFailure("INVALID_TOKEN")
		r.log.Debug().Err(err).Msg("token de sesión rechazado")
		return authz.Anonymous()
	}
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID).Msg("no se pudo cargar el usuario de la sesión")
		return authz.ForUserID(userID)
	}
	if user == nil {
		r.metrics.AuthFailure("UNKNOWN_USER")
		return authz.Anonymous()
	}
	return authz.ForUser(user)
}
