// Package resettoken genera tokens aleatorios de un solo uso para restablecer contraseñas.
package resettoken

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultTTL vigencia de un token de reset.
const DefaultTTL = time.Hour

const tokenBytes = 20

// Generator produce tokens y su expiración.
type Generator struct {
	ttl time.Duration
	now func() time.Time
}

// NewGenerator construye el generador. ttl <= 0 usa DefaultTTL.
func NewGenerator(ttl time.Duration) *Generator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Generator{ttl: ttl, now: time.Now}
}

// Generate devuelve un token hex de 40 caracteres y el instante en que expira.
func (g *Generator) Generate() (string, time.Time, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("resettoken: leer aleatorio: %w", err)
	}
	return hex.EncodeToString(buf), g.now().Add(g.ttl), nil
}
