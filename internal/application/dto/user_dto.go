package dto

import "time"

// SignupRequest entrada de signup.
type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SigninRequest entrada de signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordRequest entrada de resetPassword.
type ResetPasswordRequest struct {
	ResetToken      string `json:"resetToken"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdatePermissionsRequest reemplaza los permisos de UserID.
type UpdatePermissionsRequest struct {
	UserID      string   `json:"userId"`
	Permissions []string `json:"permissions"`
}

// UserResponse salida de un usuario (sin password ni token de reset).
type UserResponse struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	Name        string             `json:"name"`
	Permissions []string           `json:"permissions"`
	Cart        []CartItemResponse `json:"cart"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// AuthResponse usuario autenticado más el token de sesión que el transporte guarda en la cookie.
type AuthResponse struct {
	Token string       `json:"-"`
	User  UserResponse `json:"user"`
}
