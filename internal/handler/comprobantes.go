package handler

import (
	"errors"
	"net/http"

	"facturador/internal/afip"
	"facturador/internal/apierror"
	"facturador/internal/dto"
	"facturador/internal/infra"
	"facturador/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ComprobantesHandler struct{ svc service.ComprobanteService }

func NewComprobantesHandler(svc service.ComprobanteService) *ComprobantesHandler {
	return &ComprobantesHandler{svc: svc}
}

// CrearComprobante godoc
// @Summary      Emitir un comprobante
// @Description  Valida, calcula totales e IVA, solicita CAE a AFIP y persiste comprobante, items y pagos iniciales atómicamente. Un rechazo de AFIP no deja rastro en la base.
// @Tags         comprobantes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearComprobanteRequest true "Detalle del comprobante"
// @Success      201  {object} dto.ComprobanteResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Failure      502  {object} apierror.APIError
// @Router       /v1/comprobantes [post]
func (h *ComprobantesHandler) CrearComprobante(c *gin.Context) {
	var req dto.CrearComprobanteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		escribirErrorFiscal(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerComprobante godoc
// @Summary      Consultar un comprobante
// @Tags         comprobantes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del comprobante"
// @Success      200 {object} dto.ComprobanteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/comprobantes/{id} [get]
func (h *ComprobantesHandler) ObtenerComprobante(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarComprobantes godoc
// @Summary      Listar comprobantes
// @Produce      json
// @Security     BearerAuth
// @Param        tipo        query string false "Tipo interno (factura_a, nota_credito_b, ...)"
// @Param        estado      query string false "pendiente | enviada | anulado | all"
// @Param        contacto_id query string false "UUID del contacto"
// @Param        desde       query string false "Fecha YYYY-MM-DD"
// @Param        hasta       query string false "Fecha YYYY-MM-DD"
// @Success      200 {object} dto.ComprobanteListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/comprobantes [get]
func (h *ComprobantesHandler) ListarComprobantes(c *gin.Context) {
	var filter dto.ComprobanteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar comprobantes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnularComprobante godoc
// @Summary      Anular comprobante
// @Description  Marca el comprobante como anulado a nivel local. Un comprobante fiscal se corrige legalmente con una nota de crédito.
// @Tags         comprobantes
// @Security     BearerAuth
// @Param        id path string true "UUID del comprobante"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/comprobantes/{id} [delete]
func (h *ComprobantesHandler) AnularComprobante(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Anular(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// escribirErrorFiscal maps emission failures onto HTTP statuses:
// a rejection carries AFIP's observations verbatim (422), transport problems
// and circuit-breaker fast-fails surface as gateway errors so clients retry.
func escribirErrorFiscal(c *gin.Context, err error) {
	var rechazo *afip.RechazoAFIP
	if errors.As(err, &rechazo) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(rechazo.Error()))
		return
	}
	var transporte *afip.ErrorTransporte
	if errors.As(err, &transporte) {
		c.JSON(http.StatusBadGateway, apierror.New("AFIP no disponible: "+transporte.Error()))
		return
	}
	if errors.Is(err, infra.ErrCircuitOpen) {
		c.JSON(http.StatusServiceUnavailable, apierror.New("AFIP temporalmente deshabilitado por fallas consecutivas"))
		return
	}
	var errAfip *afip.ErrorAFIP
	if errors.As(err, &errAfip) {
		c.JSON(http.StatusBadGateway, apierror.New(errAfip.Error()))
		return
	}
	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}
