package service

import (
	"context"
	"testing"

	"facturador/internal/afip"
	"facturador/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestContactoCrear_CamposCompletos(t *testing.T) {
	svc := NewContactoService(newStubContactoRepo())

	cuit := "30111111118"
	email := "ventas@distribuidorasur.com.ar"
	resp, err := svc.Crear(context.Background(), dto.CrearContactoRequest{
		Nombre:       "Distribuidora Sur SA",
		CUIT:         &cuit,
		CondicionIVA: afip.CondicionResponsableInscripto,
		Direccion:    "Av. Corrientes 1234, CABA",
		Email:        &email,
		Telefono:     "011-4555-0000",
	})
	require.NoError(t, err)

	assert.Equal(t, "Distribuidora Sur SA", resp.Nombre)
	assert.Equal(t, "Av. Corrientes 1234, CABA", resp.Direccion)
	assert.Equal(t, "011-4555-0000", resp.Telefono)
	require.NotNil(t, resp.Email)
	assert.Equal(t, email, *resp.Email)
	assert.True(t, resp.Activo)
}

func TestContactoCrear_CUITDuplicado(t *testing.T) {
	repo := newStubContactoRepo()
	svc := NewContactoService(repo)

	cuit := "30111111118"
	_, err := svc.Crear(context.Background(), dto.CrearContactoRequest{
		Nombre: "Original SA",
		CUIT:   &cuit,
	})
	require.NoError(t, err)

	_, err = svc.Crear(context.Background(), dto.CrearContactoRequest{
		Nombre: "Copia SRL",
		CUIT:   &cuit,
	})
	assert.ErrorContains(t, err, "ya existe un contacto con CUIT")
}

func TestContactoCrear_CondicionIVAPorDefecto(t *testing.T) {
	svc := NewContactoService(newStubContactoRepo())

	resp, err := svc.Crear(context.Background(), dto.CrearContactoRequest{
		Nombre: "Juana Pérez",
	})
	require.NoError(t, err)
	assert.Equal(t, afip.CondicionConsumidorFinal, resp.CondicionIVA)
}

func TestContactoActualizar_SoloCamposPresentes(t *testing.T) {
	repo := newStubContactoRepo()
	svc := NewContactoService(repo)

	creado, err := svc.Crear(context.Background(), dto.CrearContactoRequest{
		Nombre:    "Almacén Don Luis",
		Direccion: "Rivadavia 500",
		Telefono:  "0341-444-1111",
	})
	require.NoError(t, err)

	id := mustUUID(t, creado.ID)
	resp, err := svc.Actualizar(context.Background(), id, dto.ActualizarContactoRequest{
		Direccion: "Rivadavia 742",
	})
	require.NoError(t, err)

	// Solo dirección cambió; el resto queda como estaba.
	assert.Equal(t, "Rivadavia 742", resp.Direccion)
	assert.Equal(t, "Almacén Don Luis", resp.Nombre)
	assert.Equal(t, "0341-444-1111", resp.Telefono)
}

func TestContactoDesactivar(t *testing.T) {
	repo := newStubContactoRepo()
	svc := NewContactoService(repo)

	creado, err := svc.Crear(context.Background(), dto.CrearContactoRequest{Nombre: "Baja SRL"})
	require.NoError(t, err)

	id := mustUUID(t, creado.ID)
	require.NoError(t, svc.Desactivar(context.Background(), id))

	obtenido, err := svc.ObtenerPorID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, obtenido.Activo)
}
