package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/jugueteria-api/internal/application/dto"
	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
)

// maxPrecio primer valor que no cabe en la columna precio NUMERIC(14,2).
var maxPrecio = decimal.New(1, 12)

// ProductUseCase alta (admin) y consulta pública del catálogo.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: time.Now}
}

// Create valida los campos obligatorios, verifica que el idProducto no exista y persiste.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	nombre := strings.TrimSpace(in.Nombre)
	categoria := strings.TrimSpace(in.Categoria)
	if in.IDProducto == 0 || nombre == "" || in.Precio == nil || categoria == "" {
		return nil, domain.NewValidationError("", "faltan campos obligatorios")
	}
	// Lo que se devuelve debe ser lo mismo que después lee el catálogo.
	if !in.Precio.Equal(in.Precio.Round(2)) {
		return nil, domain.NewValidationError("precio", "máximo dos decimales")
	}
	if in.Precio.Abs().GreaterThanOrEqual(maxPrecio) {
		return nil, domain.NewValidationError("precio", "fuera de rango")
	}

	existing, err := uc.repo.GetByIDProducto(ctx, in.IDProducto)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	product := &entity.Product{
		IDProducto:  in.IDProducto,
		Nombre:      nombre,
		Precio:      *in.Precio,
		Categoria:   categoria,
		Descripcion: strings.TrimSpace(in.Descripcion),
		Imagen:      strings.TrimSpace(in.Imagen),
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List devuelve el catálogo completo, sin filtros ni paginación.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return items, nil
}

// ToProductResponse convierte la entidad en DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		IDProducto:  p.IDProducto,
		Nombre:      p.Nombre,
		Precio:      p.Precio,
		Categoria:   p.Categoria,
		Descripcion: p.Descripcion,
		Imagen:      p.Imagen,
	}
}
