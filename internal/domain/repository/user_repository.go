package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el usuario no existe.
type UserRepository interface {
	// Create retorna domain.ErrEmailAlreadyExists si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByResetToken busca un usuario con ese token cuya expiración sea >= now.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error
	// CompletePasswordReset guarda el hash y limpia token y expiración en una sola escritura.
	CompletePasswordReset(ctx context.Context, userID, passwordHash string) error
	// UpdatePermissions reemplaza el conjunto completo de permisos.
	UpdatePermissions(ctx context.Context, userID string, permissions []entity.Permission) error
}
