package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada de /api/admin/agregar-producto.
// Precio es puntero para distinguir "ausente" de cero.
type CreateProductRequest struct {
	IDProducto  int64            `json:"idProducto" form:"idProducto"`
	Nombre      string           `json:"nombre" form:"nombre"`
	Precio      *decimal.Decimal `json:"precio" form:"precio"`
	Categoria   string           `json:"categoria" form:"categoria"`
	Descripcion string           `json:"descripcion" form:"descripcion"`
	Imagen      string           `json:"imagen" form:"imagen"`
}

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	IDProducto  int64           `json:"idProducto"`
	Nombre      string          `json:"nombre"`
	Precio      decimal.Decimal `json:"precio"`
	Categoria   string          `json:"categoria"`
	Descripcion string          `json:"descripcion"`
	Imagen      string          `json:"imagen"`
}

// CreateProductResponse confirmación de alta con el producto creado.
type CreateProductResponse struct {
	Mensaje  string          `json:"mensaje"`
	Producto ProductResponse `json:"producto"`
}
