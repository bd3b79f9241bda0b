package handler

import (
	"net/http"

	"facturador/internal/apierror"
	"facturador/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FacturacionHandler struct{ svc service.FacturacionService }

func NewFacturacionHandler(svc service.FacturacionService) *FacturacionHandler {
	return &FacturacionHandler{svc: svc}
}

// DescargarPDF godoc
// @Summary      Descargar PDF de un comprobante
// @Description  Sirve el PDF generado asíncronamente tras la emisión. 404 mientras el worker no lo haya producido.
// @Tags         facturacion
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID del comprobante"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Router       /v1/facturacion/pdf/{id} [get]
func (h *FacturacionHandler) DescargarPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	path, err := h.svc.ObtenerPDFPath(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.FileAttachment(path, "comprobante.pdf")
}
