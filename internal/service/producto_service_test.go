package service

import (
	"context"
	"testing"

	"facturador/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductoCrear_ConDescripcion(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo())

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo:      "CAFE-250",
		Nombre:      "Café molido 250g",
		Descripcion: "Tueste medio, origen Brasil",
		Precio:      decimal.RequireFromString("3500.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "CAFE-250", resp.Codigo)
	assert.Equal(t, "Tueste medio, origen Brasil", resp.Descripcion)
	assert.Equal(t, "3500.00", resp.Precio.StringFixed(2))
	assert.True(t, resp.Activo)
}

func TestProductoCrear_PrecioInvalido(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo())

	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo: "X-1",
		Nombre: "Gratis",
		Precio: decimal.Zero,
	})
	assert.ErrorContains(t, err, "mayor a cero")
}

func TestProductoCrear_CodigoDuplicado(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo())

	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo: "CAFE-250",
		Nombre: "Café molido 250g",
		Precio: decimal.RequireFromString("3500.00"),
	})
	require.NoError(t, err)

	_, err = svc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo: "CAFE-250",
		Nombre: "Otro café",
		Precio: decimal.RequireFromString("4000.00"),
	})
	assert.ErrorContains(t, err, "ya existe un producto con código")
}

func TestProductoActualizar_SoloCamposPresentes(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo())

	creado, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Codigo:      "YER-500",
		Nombre:      "Yerba 500g",
		Descripcion: "Con palo",
		Precio:      decimal.RequireFromString("2800.00"),
	})
	require.NoError(t, err)

	nuevoPrecio := decimal.RequireFromString("3100.00")
	resp, err := svc.Actualizar(context.Background(), mustUUID(t, creado.ID), dto.ActualizarProductoRequest{
		Precio: &nuevoPrecio,
	})
	require.NoError(t, err)

	assert.Equal(t, "3100.00", resp.Precio.StringFixed(2))
	assert.Equal(t, "Con palo", resp.Descripcion)
	assert.Equal(t, "Yerba 500g", resp.Nombre)
}
