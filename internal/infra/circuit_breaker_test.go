package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSimulado = errors.New("afip caido")

func cbRapido() *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      50 * time.Millisecond,
	})
}

func TestCB_AbreTrasFallasConsecutivas(t *testing.T) {
	cb := cbRapido()

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errSimulado })
		assert.ErrorIs(t, err, errSimulado)
	}
	assert.Equal(t, CBOpen, cb.State())

	// Abierto: fast-fail sin ejecutar fn.
	ejecutado := false
	err := cb.Execute(func() error { ejecutado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, ejecutado)
}

func TestCB_ExitoReseteaContador(t *testing.T) {
	cb := cbRapido()

	_ = cb.Execute(func() error { return errSimulado })
	_ = cb.Execute(func() error { return errSimulado })
	require.NoError(t, cb.Execute(func() error { return nil }))

	// El contador se reinició: dos fallas más no alcanzan el umbral.
	_ = cb.Execute(func() error { return errSimulado })
	_ = cb.Execute(func() error { return errSimulado })
	assert.Equal(t, CBClosed, cb.State())
}

func TestCB_RecuperacionPorHalfOpen(t *testing.T) {
	cb := cbRapido()

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errSimulado })
	}
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// Dos sondas exitosas cierran el circuito.
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCB_FallaEnHalfOpenReabre(t *testing.T) {
	cb := cbRapido()

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errSimulado })
	}
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	_ = cb.Execute(func() error { return errSimulado })
	assert.Equal(t, CBOpen, cb.State())
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
}
