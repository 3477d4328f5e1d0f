package entity

import (
	"fmt"
	"time"
)

// Role conjunto cerrado de roles. El valor persistido es el string.
type Role string

// Roles válidos para User.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole convierte el valor almacenado en un Role. Vacío equivale a RoleUser.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("rol desconocido %q", s)
	}
}

// IsAdmin indica si el rol habilita las rutas de administración.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) String() string { return string(r) }

// User representa una cuenta de la tienda. El email es único.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt, nunca la contraseña en claro
	Role         Role
	CreatedAt    time.Time
}
