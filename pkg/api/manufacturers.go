package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/forms"
)

func (h *Handler) ListManufacturers(c *gin.Context) {
	var search forms.ManufacturerNameSearchForm
	if !bindQuery(c, &search) {
		return
	}

	list, err := h.services.Manufacturer().List(c.Request.Context(), search, pageParam(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"manufacturers": list, "search": search})
}

func (h *Handler) CreateManufacturer(c *gin.Context) {
	var form forms.ManufacturerForm
	if !bindForm(c, &form) {
		return
	}

	m, err := h.services.Manufacturer().Create(c.Request.Context(), form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetManufacturer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	m, err := h.services.Manufacturer().Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) UpdateManufacturer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var form forms.ManufacturerForm
	if !bindForm(c, &form) {
		return
	}

	m, err := h.services.Manufacturer().Update(c.Request.Context(), id, form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteManufacturer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Manufacturer().Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manufacturer deleted", "redirect": "/manufacturers/"})
}
