package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-api/pkg/password"
)

func TestHash_NoGuardaTextoPlano(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("dogs123")
	require.NoError(t, err)

	assert.NotEqual(t, "dogs123", hash)
	assert.NoError(t, h.Compare(hash, "dogs123"))
}

func TestCompare_Incorrecta(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("dogs123")
	require.NoError(t, err)

	assert.ErrorIs(t, h.Compare(hash, "cats123"), password.ErrMismatch)
}

func TestCompare_HashCorrupto(t *testing.T) {
	err := password.NewHasher(bcrypt.MinCost).Compare("no-es-bcrypt", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, password.ErrMismatch)
}

func TestHash_DemasiadoLarga(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("x", password.MaxLength+1))
	assert.ErrorIs(t, err, password.ErrTooLong)

	_, err = h.Hash(strings.Repeat("x", password.MaxLength))
	assert.NoError(t, err)
}

func TestNewHasher_CostoFueraDeRango(t *testing.T) {
	h := password.NewHasher(99)
	hash, err := h.Hash("x")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
