package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fenix-admin/internal/application/dto"
	"github.com/jhoicas/fenix-admin/pkg/jwt"
)

// Locals keys para los datos de la usuaria autenticada en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

const (
	msgNoCredentials = "Las credenciales de autenticación no se proveyeron."
	msgBadToken      = "Token inválido."
	msgForbidden     = "Usted no tiene permiso para realizar esta acción."
)

// AuthMiddleware valida el token JWT ("Bearer <token>" o "Token <token>") y carga
// user_id, username y role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, msgNoCredentials)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !(strings.EqualFold(parts[0], "Bearer") || strings.EqualFold(parts[0], "Token")) {
			return unauthorized(c, msgBadToken)
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, msgNoCredentials)
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthorized(c, msgBadToken)
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, detail string) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="api"`)
	return c.Status(fiber.StatusUnauthorized).JSON(dto.DetailResponse{Detail: detail})
}

// RequireRole deja pasar solo a las usuarias con alguno de los roles indicados.
// Debe ir después de AuthMiddleware. Un token sin rol es 401.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return unauthorized(c, msgBadToken)
		}
		for _, r := range roles {
			if strings.EqualFold(r, role) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.DetailResponse{Detail: msgForbidden})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetUsername devuelve el username del contexto.
func GetUsername(c *fiber.Ctx) string {
	return localString(c, LocalUsername)
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
