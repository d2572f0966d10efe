// Package authz modela la identidad de la petición (Principal) y los guards de autorización.
//
// El Principal se construye una sola vez por petición (IdentityResolver) y viaja en el
// context.Context; nadie lo modifica después de construido.
package authz

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// Principal identidad autenticada o anónima de una petición.
type Principal struct {
	UserID      string
	permissions map[entity.Permission]struct{}
	user        *entity.User
}

// Anonymous principal sin usuario ni permisos.
func Anonymous() Principal { return Principal{} }

// ForUserID principal con ID pero sin permisos (el usuario no pudo cargarse).
func ForUserID(userID string) Principal { return Principal{UserID: userID} }

// ForUser principal completo. Copia usuario y permisos.
func ForUser(u *entity.User) Principal {
	if u == nil {
		return Anonymous()
	}
	cp := *u
	cp.Permissions = append([]entity.Permission(nil), u.Permissions...)
	perms := make(map[entity.Permission]struct{}, len(cp.Permissions))
	for _, p := range cp.Permissions {
		perms[p] = struct{}{}
	}
	return Principal{UserID: cp.ID, permissions: perms, user: &cp}
}

// IsAuthenticated indica si hay un usuario en la petición.
func (p Principal) IsAuthenticated() bool { return p.UserID != "" }

// Has indica si el principal tiene el permiso.
func (p Principal) Has(perm entity.Permission) bool {
	_, ok := p.permissions[perm]
	return ok
}

// Permissions devuelve una copia de los permisos en el orden canónico.
func (p Principal) Permissions() []entity.Permission {
	out := make([]entity.Permission, 0, len(p.permissions))
	for _, perm := range entity.AllPermissions {
		if p.Has(perm) {
			out = append(out, perm)
		}
	}
	return out
}

// User devuelve una copia del usuario cargado por el resolver, o nil.
func (p Principal) User() *entity.User {
	if p.user == nil {
		return nil
	}
	cp := *p.user
	cp.Permissions = append([]entity.Permission(nil), p.user.Permissions...)
	return &cp
}

type principalKey struct{}

// WithPrincipal devuelve un contexto que transporta p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext devuelve el principal de ctx, o el anónimo si no hay.
func FromContext(ctx context.Context) Principal {
	if ctx == nil {
		return Anonymous()
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok {
		return Anonymous()
	}
	return p
}
