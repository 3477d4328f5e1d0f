package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para el catálogo.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id_producto, nombre, precio, categoria, descripcion, imagen, created_at`

// Create persiste un producto. La PK id_producto rechaza duplicados aunque dos altas compitan.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO productos (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		p.IDProducto, p.Nombre, p.Precio, p.Categoria, p.Descripcion, p.Imagen, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByIDProducto obtiene un producto. (nil, nil) si no existe.
func (r *ProductRepo) GetByIDProducto(ctx context.Context, idProducto int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE id_producto = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, idProducto).Scan(
		&p.IDProducto, &p.Nombre, &p.Precio, &p.Categoria, &p.Descripcion, &p.Imagen, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return &p, nil
}

// List devuelve todo el catálogo en orden de alta.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos ORDER BY created_at, id_producto`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.IDProducto, &p.Nombre, &p.Precio, &p.Categoria, &p.Descripcion, &p.Imagen, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
