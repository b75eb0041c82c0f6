package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fenix-admin/internal/application/dto"
	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/pkg/jwt"
)

// ErrMissingCredentials falta el usuario (o correo) o la contraseña.
var ErrMissingCredentials = fmt.Errorf("%w: faltan credenciales", domain.ErrInvalidInput)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Authenticator verifica credenciales de una usuaria (lo cumple *sandbox.Service).
type Authenticator interface {
	Authenticate(ctx context.Context, login, password string) (entity.Record, error)
}

// AuthUseCase login del sandbox: verifica la usuaria y emite el JWT.
type AuthUseCase struct {
	users  Authenticator
	jwtCfg JWTConfig
	log    zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users Authenticator, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{users: users, jwtCfg: jwtCfg, log: log}
}

// Login acepta username o, si viene vacío, email. Devuelve {"key": token} como dj-rest-auth.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	login := strings.TrimSpace(in.Username)
	if login == "" {
		login = strings.TrimSpace(in.Email)
	}
	if login == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := uc.users.Authenticate(ctx, login, in.Password)
	if err != nil {
		return nil, err
	}
	if user.ID() == 0 {
		return nil, errors.New("auth: usuaria sin id")
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, strconv.FormatInt(user.ID(), 10), user.String("username"),
		user.String("role"), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("username", user.String("username")).Msg("login")
	return &dto.LoginResponse{Key: token}, nil
}
