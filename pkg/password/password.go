// Package password hashea y verifica contraseñas con bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength bytes que bcrypt acepta como entrada.
const MaxLength = 72

var (
	// ErrMismatch la contraseña no corresponde al hash.
	ErrMismatch = errors.New("password: no coincide")
	// ErrTooLong la contraseña supera MaxLength bytes.
	ErrTooLong = errors.New("password: supera 72 bytes")
)

// Hasher aplica bcrypt con un costo configurable.
type Hasher struct {
	cost int
}

// NewHasher construye el hasher. Un costo fuera de rango usa bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash devuelve el hash bcrypt de plain.
func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) > MaxLength {
		return "", ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(hash), nil
}

// Compare retorna ErrMismatch si plain no corresponde a hash.
func (h *Hasher) Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return fmt.Errorf("password: compare: %w", err)
}
