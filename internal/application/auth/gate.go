package auth

import (
	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
)

// Requirement nivel de acceso que exige una ruta.
type Requirement int

const (
	// RequireSession sesión con usuario.
	RequireSession Requirement = iota
	// RequireAdmin sesión con usuario de rol admin.
	RequireAdmin
)

// Decision resultado de Authorize.
type Decision int

const (
	Allowed Decision = iota
	Unauthenticated
	Forbidden
)

// Authorize decide si la sesión cumple el requisito. Un usuario sin rol admin en una
// ruta admin es Forbidden aunque esté autenticado; sin sesión en una ruta admin también
// es Forbidden, para no revelar qué condición falló.
func Authorize(sess *entity.Session, req Requirement) Decision {
	switch req {
	case RequireAdmin:
		if sess.Authenticated() && sess.User.Role.IsAdmin() {
			return Allowed
		}
		return Forbidden
	default:
		if sess.Authenticated() {
			return Allowed
		}
		return Unauthenticated
	}
}

// Err traduce la decisión a un error de dominio (nil si Allowed).
func (d Decision) Err() error {
	switch d {
	case Unauthenticated:
		return domain.ErrUnauthorized
	case Forbidden:
		return domain.ErrForbidden
	default:
		return nil
	}
}
