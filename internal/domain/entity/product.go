package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo. IDProducto lo asigna el administrador y es único.
type Product struct {
	IDProducto  int64
	Nombre      string
	Precio      decimal.Decimal
	Categoria   string
	Descripcion string // opcional
	Imagen      string // opcional, ruta o URL
	CreatedAt   time.Time
}
