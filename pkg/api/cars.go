package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/forms"
)

func (h *Handler) ListCars(c *gin.Context) {
	var search forms.CarModelSearchForm
	if !bindQuery(c, &search) {
		return
	}

	list, err := h.services.Car().List(c.Request.Context(), search, pageParam(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cars": list, "search": search})
}

func (h *Handler) CreateCar(c *gin.Context) {
	var form forms.CarForm
	if !bindForm(c, &form) {
		return
	}

	car, err := h.services.Car().Create(c.Request.Context(), form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, car)
}

func (h *Handler) GetCar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	car, err := h.services.Car().Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *Handler) UpdateCar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var form forms.CarForm
	if !bindForm(c, &form) {
		return
	}

	car, err := h.services.Car().Update(c.Request.Context(), id, form)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *Handler) DeleteCar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Car().Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Car deleted", "redirect": "/cars/"})
}

// ToggleAssign adds or removes the authenticated driver on the car.
func (h *Handler) ToggleAssign(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d := currentDriver(c)
	if d == nil {
		unauthorized(c)
		return
	}

	assigned, err := h.services.Driver().ToggleCarAssignment(c.Request.Context(), d.ID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": assigned, "redirect": "/cars/" + c.Param("id") + "/"})
}
