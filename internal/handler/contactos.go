package handler

import (
	"net/http"

	"facturador/internal/apierror"
	"facturador/internal/dto"
	"facturador/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContactosHandler struct{ svc service.ContactoService }

func NewContactosHandler(svc service.ContactoService) *ContactosHandler {
	return &ContactosHandler{svc: svc}
}

// CrearContacto godoc
// @Summary      Crear contacto
// @Tags         contactos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearContactoRequest true "Datos del contacto"
// @Success      201  {object} dto.ContactoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/contactos [post]
func (h *ContactosHandler) CrearContacto(c *gin.Context) {
	var req dto.CrearContactoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerContacto godoc
// @Summary      Consultar contacto
// @Tags         contactos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del contacto"
// @Success      200 {object} dto.ContactoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/contactos/{id} [get]
func (h *ContactosHandler) ObtenerContacto(c *gin.Context) {
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

// ListarContactos godoc
// @Summary      Listar contactos
// @Tags         contactos
// @Produce      json
// @Security     BearerAuth
// @Param        nombre        query string false "Búsqueda por nombre"
// @Param        condicion_iva query string false "responsable_inscripto | exento | consumidor_final | monotributo"
// @Param        activo        query string false "true (default) | false | all"
// @Success      200 {object} dto.ContactoListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/contactos [get]
func (h *ContactosHandler) ListarContactos(c *gin.Context) {
	var filter dto.ContactoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar contactos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarContacto godoc
// @Summary      Actualizar contacto
// @Tags         contactos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                        true "UUID del contacto"
// @Param        body body dto.ActualizarContactoRequest true "Campos a actualizar"
// @Success      200  {object} dto.ContactoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/contactos/{id} [put]
func (h *ContactosHandler) ActualizarContacto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarContactoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactivarContacto godoc
// @Summary      Desactivar contacto
// @Tags         contactos
// @Security     BearerAuth
// @Param        id path string true "UUID del contacto"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/contactos/{id} [delete]
func (h *ContactosHandler) DesactivarContacto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
