package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/pkg/jwt"
)

// LocalConseiller clave en c.Locals del conseiller autenticado.
const LocalConseiller = "conseiller"

// HeaderConseiller permite identificar al conseiller cuando la API no exige token.
const HeaderConseiller = "X-Conseiller"

// AuthMiddleware valida el Bearer Token JWT y guarda el conseiller en c.Locals.
// Con jwtSecret vacío la API es abierta: el conseiller se toma, si viene, de la cabecera X-Conseiller.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if jwtSecret == "" {
			c.Locals(LocalConseiller, strings.TrimSpace(c.Get(HeaderConseiller)))
			return c.Next()
		}
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Error: prospection.MsgUnauthorized})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Error: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Error: prospection.MsgUnauthorized})
		}
		conseiller, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Error: "Jeton invalide ou expiré."})
		}
		c.Locals(LocalConseiller, conseiller)
		return c.Next()
	}
}

// GetConseiller devuelve el conseiller del contexto (después del middleware de auth).
func GetConseiller(c *fiber.Ctx) string {
	v := c.Locals(LocalConseiller)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
