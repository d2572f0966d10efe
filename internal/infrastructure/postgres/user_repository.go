package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, name, password_hash, permissions, reset_token, reset_token_expiry, created_at, updated_at`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, permissionsToText(user.Permissions),
		user.ResetToken, user.ResetTokenExpiry, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return storeErr("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "get user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email (ya normalizado).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByResetToken obtiene el usuario con ese token si no ha vencido.
func (r *UserRepo) GetByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	return r.getOne(ctx, "get user by reset token",
		`SELECT `+userColumns+` FROM users WHERE reset_token = $1 AND reset_token_expiry >= $2`, token, now)
}

// List todos los usuarios por fecha de alta.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storeErr("scan user", err)
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list users", err)
	}
	return list, nil
}

// SetResetToken guarda token y expiración juntos.
func (r *UserRepo) SetResetToken(ctx context.Context, userID, token string, expiry time.Time) error {
	return r.update(ctx, "set reset token",
		`UPDATE users SET reset_token = $2, reset_token_expiry = $3, updated_at = now() WHERE id = $1`,
		userID, token, expiry)
}

// CompletePasswordReset escribe el hash y limpia el token en la misma sentencia.
func (r *UserRepo) CompletePasswordReset(ctx context.Context, userID, passwordHash string) error {
	return r.update(ctx, "complete password reset",
		`UPDATE users SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL, updated_at = now() WHERE id = $1`,
		userID, passwordHash)
}

// UpdatePermissions reemplaza el arreglo de permisos.
func (r *UserRepo) UpdatePermissions(ctx context.Context, userID string, permissions []entity.Permission) error {
	return r.update(ctx, "update permissions",
		`UPDATE users SET permissions = $2, updated_at = now() WHERE id = $1`,
		userID, permissionsToText(permissions))
}

func (r *UserRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storeErr(op, err)
	}
	return u, nil
}

func (r *UserRepo) update(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return storeErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func scanUser(row pgxScanner) (*entity.User, error) {
	var u entity.User
	var perms []string
	if err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &perms,
		&u.ResetToken, &u.ResetTokenExpiry, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Permissions = make([]entity.Permission, len(perms))
	for i, p := range perms {
		u.Permissions[i] = entity.Permission(p)
	}
	return &u, nil
}

func permissionsToText(perms []entity.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
