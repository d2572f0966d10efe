package graphql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-api/internal/domain"
)

func TestErrorCode(t *testing.T) {
	cases := map[error]string{
		domain.ErrUnauthenticated:                             CodeUnauthenticated,
		domain.ErrForbidden:                                   CodeForbidden,
		domain.ErrUserNotFound:                                CodeNotFound,
		domain.ErrEmailAlreadyExists:                          CodeDuplicateEmail,
		domain.InvalidInput("precio negativo"):                CodeValidation,
		fmt.Errorf("%w: tarjeta", domain.ErrPaymentDeclined):  CodePaymentDeclined,
		domain.NewStoreError("insert", errors.New("timeout")): CodeStore,
		errors.New("algo raro"):                               CodeInternal,
	}
	for err, want := range cases {
		assert.Equal(t, want, ErrorCode(err), err.Error())
	}
}

func TestToAPIError_OcultaDetalleDelStore(t *testing.T) {
	err := Classify(domain.NewStoreError("insert user", errors.New("dial tcp 10.0.0.1:5432")))
	assert.Equal(t, CodeStore, err.Code)
	assert.NotContains(t, err.Error(), "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.Equal(t, map[string]interface{}{"code": CodeStore}, err.Extensions())
}

func TestToAPIError_ConservaMensajeDeValidacion(t *testing.T) {
	err := Classify(domain.InvalidInput("el título es obligatorio"))
	assert.Contains(t, err.Message, "el título es obligatorio")
}

func TestSession_NilSeguro(t *testing.T) {
	var s *Session
	s.Issue("x")
	s.Clear()
}
