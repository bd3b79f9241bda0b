package handler

import (
	"net/http"

	"facturador/internal/apierror"
	"facturador/internal/dto"
	"facturador/internal/service"

	"github.com/gin-gonic/gin"
)

type BancosHandler struct{ svc service.BancoService }

func NewBancosHandler(svc service.BancoService) *BancosHandler { return &BancosHandler{svc: svc} }

// CrearBanco godoc
// @Summary      Alta de banco
// @Tags         medios-de-pago
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearBancoRequest true "Datos del banco"
// @Success      201  {object} dto.BancoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/bancos [post]
func (h *BancosHandler) CrearBanco(c *gin.Context) {
	var req dto.CrearBancoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearBanco(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarBancos godoc
// @Summary      Listar bancos activos
// @Tags         medios-de-pago
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.BancoResponse
// @Router       /v1/bancos [get]
func (h *BancosHandler) ListarBancos(c *gin.Context) {
	resp, err := h.svc.ListarBancos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar bancos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearTarjeta godoc
// @Summary      Alta de tarjeta
// @Tags         medios-de-pago
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearTarjetaRequest true "Datos de la tarjeta"
// @Success      201  {object} dto.TarjetaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/tarjetas [post]
func (h *BancosHandler) CrearTarjeta(c *gin.Context) {
	var req dto.CrearTarjetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTarjeta(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarTarjetas godoc
// @Summary      Listar tarjetas activas
// @Tags         medios-de-pago
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.TarjetaResponse
// @Router       /v1/tarjetas [get]
func (h *BancosHandler) ListarTarjetas(c *gin.Context) {
	resp, err := h.svc.ListarTarjetas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar tarjetas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
