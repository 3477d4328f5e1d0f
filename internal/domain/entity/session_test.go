package entity_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
)

func producto(id int64, nombre string, precio int64) *entity.Product {
	return &entity.Product{IDProducto: id, Nombre: nombre, Precio: decimal.NewFromInt(precio), Categoria: "peluches", Imagen: "/img/" + nombre + ".png"}
}

func TestAddToCart_MismoProductoSeFusiona(t *testing.T) {
	s := entity.NewSession("s1", time.Now(), time.Hour)
	p := producto(7, "oso", 25000)

	s.AddToCart(p, 2)
	s.AddToCart(p, 3)

	require.Len(t, s.Cart, 1, "a lo sumo una línea por idProducto")
	assert.Equal(t, 5, s.Cart[0].Cantidad)
}

func TestAddToCart_LimiteDeCantidad(t *testing.T) {
	s := entity.NewSession("s1", time.Now(), time.Hour)
	p := producto(7, "oso", 25000)

	require.NoError(t, s.AddToCart(p, entity.MaxCantidad-1))
	assert.ErrorIs(t, s.AddToCart(p, 2), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.AddToCart(p, math.MaxInt), domain.ErrInvalidInput, "sin desbordar a negativo")
	assert.Equal(t, entity.MaxCantidad-1, s.Cart[0].Cantidad, "un rechazo no modifica la línea")

	require.NoError(t, s.AddToCart(p, 1))
	assert.Equal(t, entity.MaxCantidad, s.Cart[0].Cantidad)

	assert.ErrorIs(t, s.AddToCart(producto(8, "tren", 1), 0), domain.ErrInvalidInput)
	assert.Len(t, s.Cart, 1)
}

func TestAddToCart_CopiaDelProducto(t *testing.T) {
	s := entity.NewSession("s1", time.Now(), time.Hour)
	p := producto(7, "oso", 25000)
	s.AddToCart(p, 1)

	p.Precio = decimal.NewFromInt(99999)
	p.Nombre = "oso gigante"

	assert.True(t, s.Cart[0].Precio.Equal(decimal.NewFromInt(25000)), "el precio queda congelado al agregar")
	assert.Equal(t, "oso", s.Cart[0].Nombre)
}

func TestRemoveFromCart_Idempotente(t *testing.T) {
	s := entity.NewSession("s1", time.Now(), time.Hour)
	s.AddToCart(producto(1, "tren", 1000), 1)
	s.AddToCart(producto(2, "pelota", 500), 4)
	before := s.Lines()

	s.RemoveFromCart(99)
	assert.Equal(t, before, s.Lines())

	s.RemoveFromCart(1)
	require.Len(t, s.Cart, 1)
	assert.Equal(t, int64(2), s.Cart[0].IDProducto)
}

func TestRemoveFromCart_SinCarritoLoInicializa(t *testing.T) {
	s := entity.NewSession("s1", time.Now(), time.Hour)
	s.RemoveFromCart(3)
	assert.NotNil(t, s.Cart)
	assert.Empty(t, s.Cart)
}

func TestClearCart(t *testing.T) {
	s := entity.NewSession("s1", time.Now(), time.Hour)
	s.AddToCart(producto(1, "tren", 1000), 1)
	s.ClearCart()
	assert.NotNil(t, s.Lines())
	assert.Empty(t, s.Lines())
}

func TestLines_NuncaNil(t *testing.T) {
	s := entity.NewSession("s1", time.Now(), time.Hour)
	assert.NotNil(t, s.Lines())
	assert.Empty(t, s.Lines())
}

func TestExpired_TTLFijo(t *testing.T) {
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s := entity.NewSession("s1", now, 24*time.Hour)

	assert.False(t, s.Expired(now.Add(23*time.Hour)))
	assert.True(t, s.Expired(now.Add(24*time.Hour)))
}

func TestCartTotal(t *testing.T) {
	lines := []entity.CartLine{
		{IDProducto: 1, Precio: decimal.RequireFromString("1500.50"), Cantidad: 2},
		{IDProducto: 2, Precio: decimal.NewFromInt(200), Cantidad: 3},
	}
	assert.True(t, entity.CartTotal(lines).Equal(decimal.RequireFromString("3601")))
	assert.True(t, entity.CartTotal(nil).IsZero())
}

func TestParseRole(t *testing.T) {
	r, err := entity.ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, r)

	r, err = entity.ParseRole("admin")
	require.NoError(t, err)
	assert.True(t, r.IsAdmin())

	_, err = entity.ParseRole("superadmin")
	assert.Error(t, err)
}
