package entity

import "time"

// Permission capacidad otorgada a un usuario.
type Permission string

// Permisos válidos.
const (
	PermissionUser             Permission = "USER"
	PermissionAdmin            Permission = "ADMIN"
	PermissionItemCreate       Permission = "ITEMCREATE"
	PermissionItemUpdate       Permission = "ITEMUPDATE"
	PermissionItemDelete       Permission = "ITEMDELETE"
	PermissionPermissionUpdate Permission = "PERMISSIONUPDATE"
)

// AllPermissions en el orden en que se exponen en el API.
var AllPermissions = []Permission{
	PermissionAdmin,
	PermissionUser,
	PermissionItemCreate,
	PermissionItemUpdate,
	PermissionItemDelete,
	PermissionPermissionUpdate,
}

// DefaultPermissions permisos asignados en el registro.
func DefaultPermissions() []Permission {
	return []Permission{PermissionUser}
}

// Valid indica si p es un permiso conocido.
func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// User cuenta de cliente o administrador.
type User struct {
	ID           string
	Email        string // único, siempre en minúsculas
	Name         string
	PasswordHash string // bcrypt
	Permissions  []Permission
	// ResetToken y ResetTokenExpiry son ambos nil o ambos no nil.
	ResetToken       *string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasPermission indica si el usuario tiene p.
func (u *User) HasPermission(p Permission) bool {
	for _, have := range u.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// ClearReset elimina el token de reset y su expiración.
func (u *User) ClearReset() {
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
}
