package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/forms"
)

func (h *Handler) ListDrivers(c *gin.Context) {
	var search forms.DriverUsernameSearchForm
	if !bindQuery(c, &search) {
		return
	}

	list, err := h.services.Driver().List(c.Request.Context(), search, pageParam(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": list, "search": search})
}

func (h *Handler) CreateDriver(c *gin.Context) {
	var form forms.DriverCreationForm
	if !bindForm(c, &form) {
		return
	}

	d, err := h.services.Driver().Create(c.Request.Context(), form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Location", d.AbsoluteURL())
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	d, err := h.services.Driver().Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateDriverLicense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var form forms.DriverLicenseUpdateForm
	if !bindForm(c, &form) {
		return
	}

	d, err := h.services.Driver().UpdateLicense(c.Request.Context(), id, form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Driver().Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Driver deleted", "redirect": "/drivers/"})
}
