package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/tienda-api/internal/application/authz"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/jwt"
	"github.com/jhoicas/tienda-api/pkg/password"
	"github.com/jhoicas/tienda-api/pkg/resettoken"
)

// Mensajes fijos de las mutaciones sin datos.
const (
	SignoutMessage      = "Goodbye!"
	RequestResetMessage = "Thanks!"
)

// Config parámetros de auth que no son secretos del codec.
type Config struct {
	PublicURL string // base del frontend para el enlace de reset
	StoreName string // firma del correo
	ResetTTL  time.Duration
}

// AuthUseCase casos de uso de autenticación: registro, login, reset y permisos.
type AuthUseCase struct {
	userRepo repository.UserRepository
	hasher   *password.Hasher
	codec    *jwt.Codec
	resetGen *resettoken.Generator
	mailer   ports.Mailer
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	hasher *password.Hasher,
	codec *jwt.Codec,
	mailer ports.Mailer,
	cfg Config,
	log zerolog.Logger,
) *AuthUseCase {
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = resettoken.DefaultTTL
	}
	return &AuthUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		codec:    codec,
		resetGen: resettoken.NewGenerator(cfg.ResetTTL),
		mailer:   mailer,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

var lowerCaser = cases.Lower(language.Und)

// NormalizeEmail recorta espacios y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return lowerCaser.String(strings.TrimSpace(email))
}

// Signup crea un usuario con permiso USER y devuelve su token de sesión.
// Retorna domain.ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.AuthResponse, error) {
	email := NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.InvalidInput("email inválido")
	}
	if name == "" {
		return nil, domain.InvalidInput("el nombre es obligatorio")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Permissions:  entity.DefaultPermissions(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.session(user)
}

func validatePassword(plain string) error {
	if plain == "" {
		return domain.InvalidInput("la contraseña es obligatoria")
	}
	if len(plain) > password.MaxLength {
		return domain.InvalidInput("la contraseña no puede superar %d bytes", password.MaxLength)
	}
	return nil
}

// Signin verifica email/password y devuelve el token de sesión.
func (uc *AuthUseCase) Signin(ctx context.Context, in dto.SigninRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		return nil, domain.ErrInvalidCredential
	}
	return uc.session(user)
}

// Signout no toca el store; el transporte borra la cookie.
func (uc *AuthUseCase) Signout(ctx context.Context) *dto.MessageResponse {
	return &dto.MessageResponse{Message: SignoutMessage}
}

// RequestReset genera un token de reset, lo persiste y envía el enlace por correo.
// Un fallo del correo se registra y no cambia la respuesta.
func (uc *AuthUseCase) RequestReset(ctx context.Context, email string) (*dto.MessageResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	token, expiry, err := uc.resetGen.Generate()
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		return nil, err
	}

	html, err := renderResetEmail(resetEmailData{
		Name:    user.Name,
		Link:    uc.cfg.PublicURL + "/reset?resetToken=" + token,
		Minutes: int(uc.cfg.ResetTTL / time.Minute),
		Store:   uc.cfg.StoreName,
	})
	if err == nil {
		err = uc.mailer.Send(ctx, user.Email, "Tu token de reset de contraseña", html)
	}
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("no se pudo enviar el correo de reset")
	}
	return &dto.MessageResponse{Message: RequestResetMessage}, nil
}

// ResetPassword cambia la contraseña si el token existe y no ha vencido, e inicia sesión.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) (*dto.AuthResponse, error) {
	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.ResetToken == "" {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	user, err := uc.userRepo.GetByResetToken(ctx, in.ResetToken, uc.now())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.CompletePasswordReset(ctx, user.ID, hash); err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.ClearReset()
	return uc.session(user)
}

// UpdatePermissions reemplaza los permisos de un usuario. Requiere ADMIN o PERMISSIONUPDATE.
func (uc *AuthUseCase) UpdatePermissions(ctx context.Context, in dto.UpdatePermissionsRequest) (*dto.UserResponse, error) {
	if err := authz.RequirePermission(authz.FromContext(ctx), entity.PermissionAdmin, entity.PermissionPermissionUpdate); err != nil {
		return nil, err
	}
	perms, err := parsePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
	target, err := uc.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.userRepo.UpdatePermissions(ctx, target.ID, perms); err != nil {
		return nil, err
	}
	target.Permissions = perms
	return dto.FromUser(target, nil), nil
}

func parsePermissions(in []string) ([]entity.Permission, error) {
	seen := make(map[entity.Permission]bool, len(in))
	out := make([]entity.Permission, 0, len(in))
	for _, s := range in {
		p := entity.Permission(s)
		if !p.Valid() {
			return nil, domain.InvalidInput("permiso desconocido %q", s)
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

func (uc *AuthUseCase) session(user *entity.User) (*dto.AuthResponse, error) {
	token, err := uc.codec.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: *dto.FromUser(user, nil)}, nil
}
