package resettoken_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/pkg/resettoken"
)

func TestGenerate_FormatoYExpiracion(t *testing.T) {
	before := time.Now()
	tok, exp, err := resettoken.NewGenerator(0).Generate()
	require.NoError(t, err)

	assert.Len(t, tok, 40)
	assert.Regexp(t, "^[0-9a-f]+$", tok)
	assert.WithinDuration(t, before.Add(time.Hour), exp, 5*time.Second)
}

func TestGenerate_TokensDistintos(t *testing.T) {
	g := resettoken.NewGenerator(time.Minute)
	a, _, err := g.Generate()
	require.NoError(t, err)
	b, _, err := g.Generate()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
