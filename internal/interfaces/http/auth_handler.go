package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/jugueteria-api/internal/application/auth"
	"github.com/jhoicas/jugueteria-api/internal/application/dto"
	"github.com/jhoicas/jugueteria-api/pkg/logger"
	"github.com/jhoicas/jugueteria-api/pkg/metrics"
)

// AuthHandler maneja registro, login, logout y usuario actual.
type AuthHandler struct {
	uc      *auth.AuthUseCase
	cookie  SessionCookie
	metrics *metrics.Metrics
	log     *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, cookie SessionCookie, m *metrics.Metrics, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie, metrics: m, log: log}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "username, email, password, confirm_password"
// @Success      303
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /register-process [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.RegisterUser(c.Context(), in); err != nil {
		h.metrics.AuthEvent(metrics.AuthRegisterFail)
		return writeError(c, h.log, err)
	}
	h.metrics.AuthEvent(metrics.AuthRegister)
	return c.Redirect("/index.html", fiber.StatusSeeOther)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      303
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /login-process [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	sess, err := h.uc.Login(c.Context(), GetSession(c), in)
	if err != nil {
		h.metrics.AuthEvent(metrics.AuthLoginFail)
		return writeError(c, h.log, err)
	}
	if err := h.cookie.Issue(c, sess); err != nil {
		return writeError(c, h.log, err)
	}
	h.metrics.AuthEvent(metrics.AuthLogin)
	return c.Redirect("/catalogo.html", fiber.StatusSeeOther)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Success      303
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var id string
	if sess := GetSession(c); sess != nil {
		id = sess.ID
	}
	if err := h.uc.Logout(c.Context(), id); err != nil {
		return writeError(c, h.log, err)
	}
	h.cookie.Clear(c)
	h.metrics.AuthEvent(metrics.AuthLogout)
	return c.Redirect("/index.html", fiber.StatusSeeOther)
}

// Me godoc
// @Summary      Usuario de la sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /usuario [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.CurrentUser(GetSession(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
