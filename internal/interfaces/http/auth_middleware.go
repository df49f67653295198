package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/recepcion-api/internal/application/dto"
	"github.com/jhoicas/recepcion-api/internal/domain"
	"github.com/jhoicas/recepcion-api/pkg/jwt"
)

// Locals keys para UserID, CompanyID y Role en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
)

// Roles de la aplicación.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleContador  = "contador"
)

// AuthMiddleware valida el Bearer Token JWT y carga UserID, CompanyID y Role en c.Locals.
func AuthMiddleware(verifier *jwt.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return denyAuth(c, "MISSING_TOKEN", fmt.Errorf("%w: Authorization header requerido", domain.ErrUnauthorized))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return denyAuth(c, "INVALID_TOKEN", fmt.Errorf("%w: formato Bearer <token>", domain.ErrUnauthorized))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return denyAuth(c, "MISSING_TOKEN", fmt.Errorf("%w: token vacío", domain.ErrUnauthorized))
		}
		id, err := verifier.Verify(tokenString)
		if err != nil {
			return denyAuth(c, "INVALID_TOKEN", fmt.Errorf("%w: token inválido o expirado", domain.ErrUnauthorized))
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalCompanyID, id.CompanyID)
		c.Locals(LocalRole, id.Role)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE: el token no trae el claim role.
//   - 403 FORBIDDEN: rol no autorizado para la ruta.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return denyAuth(c, "MISSING_ROLE", fmt.Errorf("%w: el token no incluye rol", domain.ErrUnauthorized))
		}
		if _, ok := allowed[role]; !ok {
			return denyAuth(c, "FORBIDDEN", fmt.Errorf("%w: rol %s sin permiso para esta operación", domain.ErrForbidden, role))
		}
		return c.Next()
	}
}

// denyAuth responde con el status que corresponde al error de dominio y un código específico.
func denyAuth(c *fiber.Ctx, code string, err error) error {
	status, _ := statusFor(err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string {
	return localString(c, LocalCompanyID)
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
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
