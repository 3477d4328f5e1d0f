package repository

import (
	"context"

	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para el catálogo (DIP).
type ProductRepository interface {
	// Create persiste el producto. Devuelve domain.ErrDuplicate si el IDProducto ya existe.
	Create(ctx context.Context, product *entity.Product) error
	// GetByIDProducto devuelve (nil, nil) si no existe.
	GetByIDProducto(ctx context.Context, idProducto int64) (*entity.Product, error)
	// List devuelve todo el catálogo en el orden del store.
	List(ctx context.Context) ([]*entity.Product, error)
}
