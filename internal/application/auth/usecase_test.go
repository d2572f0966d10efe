package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/authz"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-api/pkg/jwt"
	"github.com/jhoicas/tienda-api/pkg/password"
)

type sentMail struct {
	to, subject, html string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, html})
	return nil
}

type fixture struct {
	uc     *auth.AuthUseCase
	store  *memory.Store
	codec  *jwt.Codec
	mailer *recordingMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	codec, err := jwt.NewCodec(jwt.Config{Secret: "test-secret", Issuer: "tienda-test", TTL: time.Hour})
	require.NoError(t, err)
	store := memory.NewStore()
	mailer := &recordingMailer{}
	uc := auth.NewAuthUseCase(
		store.Users(),
		password.NewHasher(bcrypt.MinCost),
		codec,
		mailer,
		auth.Config{PublicURL: "http://localhost:7777", StoreName: "Tienda"},
		zerolog.Nop(),
	)
	return &fixture{uc: uc, store: store, codec: codec, mailer: mailer}
}

func (f *fixture) signup(t *testing.T, email string) *dto.AuthResponse {
	t.Helper()
	out, err := f.uc.Signup(context.Background(), dto.SignupRequest{Email: email, Name: "Ana", Password: "secreto123"})
	require.NoError(t, err)
	return out
}

func TestSignup_GuardaHashBcrypt(t *testing.T) {
	f := newFixture(t)
	out := f.signup(t, "  Ana@Example.COM ")

	assert.Equal(t, "ana@example.com", out.User.Email)
	assert.Equal(t, []string{"USER"}, out.User.Permissions)

	stored, err := f.store.Users().GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto123")))

	userID, err := f.codec.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, userID)
}

func TestSignup_EmailDuplicado(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "ana@example.com")

	_, err := f.uc.Signup(context.Background(), dto.SignupRequest{Email: "ANA@example.com", Name: "Otra", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestSignup_CamposObligatorios(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Signup(context.Background(), dto.SignupRequest{Email: "ana@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSignup_PasswordDemasiadoLarga(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Signup(context.Background(), dto.SignupRequest{
		Email: "ana@example.com", Name: "Ana", Password: strings.Repeat("a", 80),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := f.store.Users().GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = f.uc.Signup(context.Background(), dto.SignupRequest{
		Email: "ana@example.com", Name: "Ana", Password: strings.Repeat("a", password.MaxLength),
	})
	assert.NoError(t, err)
}

func TestResetPassword_PasswordDemasiadoLarga(t *testing.T) {
	f := newFixture(t)
	created := f.signup(t, "ana@example.com")
	ctx := context.Background()
	require.NoError(t, f.store.Users().SetResetToken(ctx, created.User.ID, "tok123", time.Now().Add(time.Hour)))

	long := strings.Repeat("ñ", 40)
	_, err := f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: "tok123", Password: long, ConfirmPassword: long})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, _ := f.store.Users().GetByID(ctx, created.User.ID)
	assert.NotNil(t, stored.ResetToken, "el token sigue vigente")
}

func TestSignin(t *testing.T) {
	f := newFixture(t)
	created := f.signup(t, "ana@example.com")
	ctx := context.Background()

	out, err := f.uc.Signin(ctx, dto.SigninRequest{Email: "ANA@example.com", Password: "secreto123"})
	require.NoError(t, err)
	userID, err := f.codec.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, userID)

	_, err = f.uc.Signin(ctx, dto.SigninRequest{Email: "ana@example.com", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = f.uc.Signin(ctx, dto.SigninRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSignout(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "Goodbye!", f.uc.Signout(context.Background()).Message)
}

func TestRequestReset_EnviaEnlace(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "ana@example.com")
	ctx := context.Background()

	out, err := f.uc.RequestReset(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Thanks!", out.Message)

	stored, _ := f.store.Users().GetByEmail(ctx, "ana@example.com")
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiry)
	assert.Len(t, *stored.ResetToken, 40)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetTokenExpiry, time.Minute)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ana@example.com", f.mailer.sent[0].to)
	assert.Contains(t, f.mailer.sent[0].html, "http://localhost:7777/reset?resetToken="+*stored.ResetToken)
}

func TestRequestReset_FalloDeCorreoNoCambiaRespuesta(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "ana@example.com")
	f.mailer.err = errors.New("smtp caído")

	out, err := f.uc.RequestReset(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Thanks!", out.Message)
}

func TestRequestReset_UsuarioInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RequestReset(context.Background(), "nadie@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestResetPassword(t *testing.T) {
	f := newFixture(t)
	created := f.signup(t, "ana@example.com")
	ctx := context.Background()
	require.NoError(t, f.store.Users().SetResetToken(ctx, created.User.ID, "tok123", time.Now().Add(time.Hour)))

	_, err := f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: "tok123", Password: "a", ConfirmPassword: "b"})
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)

	out, err := f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: "tok123", Password: "nueva", ConfirmPassword: "nueva"})
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, out.User.ID)
	assert.NotEmpty(t, out.Token)

	stored, _ := f.store.Users().GetByID(ctx, created.User.ID)
	assert.Nil(t, stored.ResetToken)
	assert.Nil(t, stored.ResetTokenExpiry)

	_, err = f.uc.Signin(ctx, dto.SigninRequest{Email: "ana@example.com", Password: "nueva"})
	assert.NoError(t, err)

	_, err = f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: "tok123", Password: "otra", ConfirmPassword: "otra"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken, "el token es de un solo uso")
}

func TestResetPassword_TokenVencido(t *testing.T) {
	f := newFixture(t)
	created := f.signup(t, "ana@example.com")
	ctx := context.Background()
	require.NoError(t, f.store.Users().SetResetToken(ctx, created.User.ID, "tok123", time.Now().Add(-time.Second)))

	_, err := f.uc.ResetPassword(ctx, dto.ResetPasswordRequest{ResetToken: "tok123", Password: "nueva", ConfirmPassword: "nueva"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
}

func TestUpdatePermissions(t *testing.T) {
	f := newFixture(t)
	target := f.signup(t, "ana@example.com")
	ctx := context.Background()

	admin := authz.ForUser(&entity.User{ID: "admin", Permissions: []entity.Permission{entity.PermissionAdmin}})
	user := authz.ForUser(&entity.User{ID: "u", Permissions: []entity.Permission{entity.PermissionUser}})
	req := dto.UpdatePermissionsRequest{UserID: target.User.ID, Permissions: []string{"USER", "ITEMCREATE", "ITEMCREATE"}}

	_, err := f.uc.UpdatePermissions(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.uc.UpdatePermissions(authz.WithPrincipal(ctx, user), req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := f.uc.UpdatePermissions(authz.WithPrincipal(ctx, admin), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"USER", "ITEMCREATE"}, out.Permissions)

	stored, _ := f.store.Users().GetByID(ctx, target.User.ID)
	assert.Equal(t, []entity.Permission{entity.PermissionUser, entity.PermissionItemCreate}, stored.Permissions)

	_, err = f.uc.UpdatePermissions(authz.WithPrincipal(ctx, admin), dto.UpdatePermissionsRequest{UserID: target.User.ID, Permissions: []string{"ROOT"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdatePermissions(authz.WithPrincipal(ctx, admin), dto.UpdatePermissionsRequest{UserID: "no-existe", Permissions: []string{"USER"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", auth.NormalizeEmail("  ANA@Example.com\n"))
	assert.False(t, strings.ContainsAny(auth.NormalizeEmail(" X@Y.Z "), " XYZ"))
}
