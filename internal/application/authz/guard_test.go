package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-api/internal/application/authz"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

func principal(id string, perms ...entity.Permission) authz.Principal {
	return authz.ForUser(&entity.User{ID: id, Permissions: perms})
}

func TestRequireAuthenticated(t *testing.T) {
	assert.ErrorIs(t, authz.RequireAuthenticated(authz.Anonymous()), domain.ErrUnauthenticated)
	assert.NoError(t, authz.RequireAuthenticated(authz.ForUserID("u1")))
}

func TestRequirePermission_Interseccion(t *testing.T) {
	p := principal("u1", entity.PermissionUser, entity.PermissionItemDelete)

	assert.NoError(t, authz.RequirePermission(p, entity.PermissionAdmin, entity.PermissionItemDelete))
	assert.ErrorIs(t, authz.RequirePermission(p, entity.PermissionAdmin, entity.PermissionPermissionUpdate), domain.ErrForbidden)
	assert.ErrorIs(t, authz.RequirePermission(p), domain.ErrForbidden, "conjunto vacío nunca autoriza")
}

func TestRequirePermission_AnonimoEsUnauthenticated(t *testing.T) {
	assert.ErrorIs(t, authz.RequirePermission(authz.Anonymous(), entity.PermissionUser), domain.ErrUnauthenticated)
}

func TestRequirePermission_SoloUserIDSinPermisos(t *testing.T) {
	assert.ErrorIs(t, authz.RequirePermission(authz.ForUserID("u1"), entity.PermissionUser), domain.ErrForbidden)
}

func TestRequireOwnerOrPermission(t *testing.T) {
	owner := principal("a", entity.PermissionUser)
	other := principal("b", entity.PermissionUser)
	admin := principal("c", entity.PermissionAdmin)

	assert.NoError(t, authz.RequireOwnerOrPermission(owner, "a", entity.PermissionAdmin))
	assert.ErrorIs(t, authz.RequireOwnerOrPermission(other, "a", entity.PermissionAdmin), domain.ErrForbidden)
	assert.NoError(t, authz.RequireOwnerOrPermission(admin, "a", entity.PermissionAdmin))
	assert.ErrorIs(t, authz.RequireOwnerOrPermission(authz.Anonymous(), "", entity.PermissionAdmin), domain.ErrUnauthenticated)
}

func TestPrincipal_EnContexto(t *testing.T) {
	assert.False(t, authz.FromContext(context.Background()).IsAuthenticated())

	p := principal("u1", entity.PermissionAdmin, entity.PermissionUser)
	ctx := authz.WithPrincipal(context.Background(), p)
	got := authz.FromContext(ctx)

	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, []entity.Permission{entity.PermissionAdmin, entity.PermissionUser}, got.Permissions())
}

func TestPrincipal_Inmutable(t *testing.T) {
	u := &entity.User{ID: "u1", Permissions: []entity.Permission{entity.PermissionUser}}
	p := authz.ForUser(u)

	u.Permissions[0] = entity.PermissionAdmin
	assert.False(t, p.Has(entity.PermissionAdmin), "mutar el usuario original no afecta al principal")

	cp := p.User()
	cp.Name = "otro"
	cp.Permissions[0] = entity.PermissionAdmin
	cp.Permissions = append(cp.Permissions, entity.PermissionItemDelete)
	assert.Empty(t, p.User().Name)
	assert.Equal(t, []entity.Permission{entity.PermissionUser}, p.User().Permissions)
	assert.False(t, p.Has(entity.PermissionAdmin))
}
