package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/jugueteria-api/internal/domain"
)

// SessionUser copia del usuario tomada al hacer login. No se sincroniza con User:
// si el usuario cambia después, la sesión conserva los datos viejos.
type SessionUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// CartLine línea del carrito: copia de nombre/precio/imagen del producto al momento de agregarlo.
type CartLine struct {
	IDProducto int64           `json:"idProducto"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Imagen     string          `json:"imagen,omitempty"`
	Cantidad   int             `json:"cantidad"`
}

// Subtotal precio * cantidad.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Precio.Mul(decimal.NewFromInt(int64(l.Cantidad)))
}

// Session estado de servidor asociado a la cookie. Los tags json son la forma
// serializada que guardan los stores.
type Session struct {
	ID        string       `json:"id"`
	User      *SessionUser `json:"user,omitempty"`
	Cart      []CartLine   `json:"cart,omitempty"` // nil hasta el primer acceso al carrito
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt time.Time    `json:"expiresAt"` // fijo desde la creación, no se renueva

	// Version token de compare-and-swap; lo asigna el store en cada escritura.
	Version int64 `json:"-"`
}

// NewSession crea una sesión que expira ttl después de now.
func NewSession(id string, now time.Time, ttl time.Duration) *Session {
	return &Session{ID: id, CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

// Clone copia profunda (usuario y carrito), para stores en memoria.
func (s *Session) Clone() *Session {
	cp := *s
	if s.User != nil {
		u := *s.User
		cp.User = &u
	}
	if s.Cart != nil {
		cp.Cart = append([]CartLine{}, s.Cart...)
	}
	return &cp
}

// Expired indica si la sesión ya no es válida en now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Authenticated indica si la sesión tiene un usuario.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// TTL tiempo restante hasta la expiración.
func (s *Session) TTL(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}

// EnsureCart inicializa el carrito vacío si aún no existe.
func (s *Session) EnsureCart() {
	if s.Cart == nil {
		s.Cart = []CartLine{}
	}
}

// Lines devuelve una copia del carrito, nunca nil.
func (s *Session) Lines() []CartLine {
	out := make([]CartLine, len(s.Cart))
	copy(out, s.Cart)
	return out
}

// MaxCantidad unidades máximas de un producto en el carrito.
const MaxCantidad = 9999

// AddToCart suma cantidad a la línea del producto o agrega una línea nueva con la
// copia actual de nombre, precio e imagen. Hay a lo sumo una línea por IDProducto.
// Si la línea quedaría fuera de 1..MaxCantidad no modifica el carrito.
func (s *Session) AddToCart(p *Product, cantidad int) error {
	if cantidad <= 0 || cantidad > MaxCantidad {
		return errCantidad()
	}
	s.EnsureCart()
	for i := range s.Cart {
		if s.Cart[i].IDProducto == p.IDProducto {
			if s.Cart[i].Cantidad > MaxCantidad-cantidad {
				return errCantidad()
			}
			s.Cart[i].Cantidad += cantidad
			return nil
		}
	}
	s.Cart = append(s.Cart, CartLine{
		IDProducto: p.IDProducto,
		Nombre:     p.Nombre,
		Precio:     p.Precio,
		Imagen:     p.Imagen,
		Cantidad:   cantidad,
	})
	return nil
}

func errCantidad() error {
	return domain.NewValidationError("cantidad", fmt.Sprintf("debe estar entre 1 y %d por producto", MaxCantidad))
}

// RemoveFromCart elimina todas las líneas con ese id. Si no hay ninguna no hace nada.
func (s *Session) RemoveFromCart(idProducto int64) {
	s.EnsureCart()
	kept := s.Cart[:0]
	for _, l := range s.Cart {
		if l.IDProducto != idProducto {
			kept = append(kept, l)
		}
	}
	s.Cart = kept
}

// ClearCart deja el carrito vacío.
func (s *Session) ClearCart() {
	s.Cart = []CartLine{}
}

// CartTotal suma los subtotales de las líneas.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
