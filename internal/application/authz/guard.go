package authz

import (
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// RequireAuthenticated retorna domain.ErrUnauthenticated si no hay usuario.
func RequireAuthenticated(p Principal) error {
	if !p.IsAuthenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// RequirePermission retorna domain.ErrForbidden salvo que p tenga al menos uno de anyOf.
// Un principal anónimo recibe domain.ErrUnauthenticated.
func RequirePermission(p Principal, anyOf ...entity.Permission) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	for _, perm := range anyOf {
		if p.Has(perm) {
			return nil
		}
	}
	return domain.ErrForbidden
}

// RequireOwnerOrPermission permite el acceso al dueño del recurso O a quien tenga alguno de anyOf.
func RequireOwnerOrPermission(p Principal, ownerID string, anyOf ...entity.Permission) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if ownerID != "" && ownerID == p.UserID {
		return nil
	}
	return RequirePermission(p, anyOf...)
}
