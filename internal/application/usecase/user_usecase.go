package usecase

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/application/authz"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// UserUseCase lecturas de usuarios.
type UserUseCase struct {
	repo  repository.UserRepository
	carts repository.CartRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, carts repository.CartRepository) *UserUseCase {
	return &UserUseCase{repo: repo, carts: carts}
}

// Me devuelve el usuario de la sesión con su carrito, o (nil, nil) si es anónimo.
func (uc *UserUseCase) Me(ctx context.Context) (*dto.UserResponse, error) {
	p := authz.FromContext(ctx)
	if !p.IsAuthenticated() {
		return nil, nil
	}
	user := p.User()
	if user == nil {
		u, err := uc.repo.GetByID(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, nil
		}
		user = u
	}
	cart, err := uc.carts.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromUser(user, cart), nil
}

// List todos los usuarios. Requiere ADMIN o PERMISSIONUPDATE.
func (uc *UserUseCase) List(ctx context.Context) ([]*dto.UserResponse, error) {
	if err := authz.RequirePermission(authz.FromContext(ctx), entity.PermissionAdmin, entity.PermissionPermissionUpdate); err != nil {
		return nil, err
	}
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, len(users))
	for i, u := range users {
		out[i] = dto.FromUser(u, nil)
	}
	return out, nil
}
