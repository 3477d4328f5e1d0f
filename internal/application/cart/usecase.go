package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/jugueteria-api/internal/application/dto"
	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
)

// maxAttempts intentos de compare-and-swap por operación.
const maxAttempts = 5

// CartUseCase operaciones sobre el carrito guardado en la sesión.
//
// Cada modificación es un read-modify-write versionado: si otra petición escribió la
// misma sesión entre la lectura y el Save, se relee y se vuelve a aplicar el cambio,
// de modo que dos "agregar" concurrentes no pierden cantidades.
type CartUseCase struct {
	products repository.ProductRepository
	sessions repository.SessionRepository
	quotes   QuoteGenerator
	observer ConflictObserver
	now      func() time.Time
}

// NewCartUseCase construye el caso de uso. quotes puede ser nil si no se expone la cotización.
func NewCartUseCase(products repository.ProductRepository, sessions repository.SessionRepository, quotes QuoteGenerator) *CartUseCase {
	return &CartUseCase{products: products, sessions: sessions, quotes: quotes, now: time.Now}
}

// SetObserver registra el observador de conflictos.
func (uc *CartUseCase) SetObserver(o ConflictObserver) {
	uc.observer = o
}

// View devuelve el carrito de la sesión (vacío si nunca se usó).
func (uc *CartUseCase) View(sess *entity.Session) []dto.CartLineResponse {
	return toCartLines(sess.Lines())
}

// Add agrega cantidad unidades del producto. Si ya hay una línea con ese id se suma la
// cantidad; si no, se copia nombre/precio/imagen actuales del producto.
func (uc *CartUseCase) Add(ctx context.Context, sess *entity.Session, in dto.AddToCartRequest) ([]dto.CartLineResponse, error) {
	if in.IDProducto == 0 || in.Cantidad <= 0 {
		return nil, domain.NewValidationError("", "datos inválidos")
	}
	product, err := uc.products.GetByIDProducto(ctx, in.IDProducto)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	updated, err := uc.update(ctx, sess, func(s *entity.Session) error {
		return s.AddToCart(product, in.Cantidad)
	})
	if err != nil {
		return nil, err
	}
	return toCartLines(updated.Lines()), nil
}

// Remove quita todas las líneas del producto. Un id ausente del carrito, o sin id,
// devuelve el carrito sin cambios.
func (uc *CartUseCase) Remove(ctx context.Context, sess *entity.Session, in dto.RemoveFromCartRequest) ([]dto.CartLineResponse, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	if in.IDProducto == 0 {
		// ninguna línea tiene id 0: Add lo rechaza
		return uc.View(sess), nil
	}
	updated, err := uc.update(ctx, sess, func(s *entity.Session) error {
		s.RemoveFromCart(in.IDProducto)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCartLines(updated.Lines()), nil
}

// Clear vacía el carrito.
func (uc *CartUseCase) Clear(ctx context.Context, sess *entity.Session) error {
	_, err := uc.update(ctx, sess, func(s *entity.Session) error {
		s.ClearCart()
		return nil
	})
	return err
}

// Quote genera el PDF de cotización del carrito actual.
func (uc *CartUseCase) Quote(ctx context.Context, sess *entity.Session) ([]byte, error) {
	if uc.quotes == nil {
		return nil, errors.New("cotización no configurada")
	}
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	lines := sess.Lines()
	if len(lines) == 0 {
		return nil, domain.NewValidationError("carrito", "el carrito está vacío")
	}
	now := uc.now()
	q := Quote{
		Number:   quoteNumber(sess.ID, now),
		Customer: *sess.User,
		Lines:    lines,
		Total:    entity.CartTotal(lines),
		IssuedAt: now,
	}
	return uc.quotes.GenerateCartQuote(ctx, q)
}

// update aplica mutate y guarda con compare-and-swap. El primer intento usa la sesión
// cargada por el middleware; ante conflicto se relee del store.
func (uc *CartUseCase) update(ctx context.Context, sess *entity.Session, mutate func(*entity.Session) error) (*entity.Session, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	current := sess
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := mutate(current); err != nil {
			return nil, err
		}
		err := uc.sessions.Save(ctx, current)
		if err == nil {
			return current, nil
		}
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			return nil, err
		}
		if uc.observer != nil {
			uc.observer.SessionConflict()
		}
		fresh, err := uc.sessions.Get(ctx, sess.ID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				// logout concurrente
				return nil, domain.ErrUnauthorized
			}
			return nil, err
		}
		if !fresh.Authenticated() {
			return nil, domain.ErrUnauthorized
		}
		current = fresh
	}
	return nil, domain.ErrConcurrentUpdate
}

func quoteNumber(sessionID string, now time.Time) string {
	prefix := strings.ToUpper(strings.ReplaceAll(sessionID, "-", ""))
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	return fmt.Sprintf("COT-%s-%s", now.Format("20060102150405"), prefix)
}

func toCartLines(lines []entity.CartLine) []dto.CartLineResponse {
	out := make([]dto.CartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.CartLineResponse{
			IDProducto: l.IDProducto,
			Nombre:     l.Nombre,
			Precio:     l.Precio,
			Cantidad:   l.Cantidad,
			Imagen:     l.Imagen,
		})
	}
	return out
}
