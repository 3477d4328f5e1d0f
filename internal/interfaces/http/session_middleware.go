package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jugueteria-api/internal/application/auth"
	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
	"github.com/jhoicas/jugueteria-api/pkg/jwt"
	"github.com/jhoicas/jugueteria-api/pkg/logger"
)

// LocalSession key de c.Locals con la *entity.Session de la petición.
const LocalSession = "session"

// SessionCookie emite y lee la cookie de sesión. El valor es un JWT firmado cuyo jti
// es el id de la sesión en el store.
type SessionCookie struct {
	Name   string
	Secret string
	Issuer string
	Secure bool
}

// Issue escribe la cookie para sess; expira junto con la sesión.
func (sc SessionCookie) Issue(c *fiber.Ctx, sess *entity.Session) error {
	token, err := jwt.Generate(sc.Secret, sess.ID, sc.Issuer, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     sc.Name,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HTTPOnly: true,
		Secure:   sc.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// Clear borra la cookie en el navegador.
func (sc SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   sc.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// sessionID devuelve el id firmado en la cookie, o "" si falta o no es válida.
func (sc SessionCookie) sessionID(c *fiber.Ctx) string {
	raw := c.Cookies(sc.Name)
	if raw == "" {
		return ""
	}
	id, err := jwt.Parse(sc.Secret, sc.Issuer, raw)
	if err != nil {
		return ""
	}
	return id
}

// SessionMiddleware carga la sesión de la cookie en c.Locals. Cookie ausente, alterada,
// expirada o sin sesión en el store equivalen a "sin sesión"; no corta la petición.
func SessionMiddleware(sessions repository.SessionRepository, cookie SessionCookie, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := cookie.sessionID(c)
		if id == "" {
			return c.Next()
		}
		sess, err := sessions.Get(c.Context(), id)
		switch {
		case err == nil:
			c.Locals(LocalSession, sess)
		case errors.Is(err, domain.ErrSessionNotFound):
		default:
			return writeError(c, log, err)
		}
		return c.Next()
	}
}

// GetSession devuelve la sesión cargada por SessionMiddleware (nil si no hay).
func GetSession(c *fiber.Ctx) *entity.Session {
	sess, _ := c.Locals(LocalSession).(*entity.Session)
	return sess
}

// RequireAuth corta la petición si la sesión no cumple el requisito.
func RequireAuth(req auth.Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.Authorize(GetSession(c), req).Err(); err != nil {
			status, body := mapError(err)
			return c.Status(status).JSON(body)
		}
		return c.Next()
	}
}
