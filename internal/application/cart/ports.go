package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
)

// Quote datos de la cotización del carrito. No es un pedido: no se persiste.
type Quote struct {
	Number   string
	Customer entity.SessionUser
	Lines    []entity.CartLine
	Total    decimal.Decimal
	IssuedAt time.Time
}

// QuoteGenerator genera el PDF de la cotización (infraestructura: Maroto).
type QuoteGenerator interface {
	GenerateCartQuote(ctx context.Context, q Quote) ([]byte, error)
}

// ConflictObserver recibe un aviso cada vez que un compare-and-swap de sesión falla
// y se reintenta (métricas).
type ConflictObserver interface {
	SessionConflict()
}
