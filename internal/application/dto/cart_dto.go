package dto

import "github.com/shopspring/decimal"

// AddToCartRequest entrada de /api/carrito/agregar.
type AddToCartRequest struct {
	IDProducto int64 `json:"idProducto" form:"idProducto"`
	Cantidad   int   `json:"cantidad" form:"cantidad"`
}

// RemoveFromCartRequest entrada de /api/carrito/eliminar.
type RemoveFromCartRequest struct {
	IDProducto int64 `json:"idProducto" form:"idProducto"`
}

// CartLineResponse una línea del carrito.
type CartLineResponse struct {
	IDProducto int64           `json:"idProducto"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Cantidad   int             `json:"cantidad"`
	Imagen     string          `json:"imagen"`
}

// CartResponse mensaje + carrito actualizado.
type CartResponse struct {
	Mensaje string             `json:"mensaje"`
	Carrito []CartLineResponse `json:"carrito"`
}
