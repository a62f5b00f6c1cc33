// Package api exposes the fleet over HTTP with gin.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/logger"
	"taxifleet/service"
)

type Handler struct {
	services service.IServiceManager
	log      logger.ILogger
}

// NewRouter builds the engine. Everything but /health requires basic auth
// with a driver's credentials.
func NewRouter(services service.IServiceManager, log logger.ILogger) *gin.Engine {
	h := &Handler{services: services, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/", h.basicAuth())
	{
		auth.GET("/", h.Index)

		manufacturers := auth.Group("/manufacturers")
		manufacturers.GET("/", h.ListManufacturers)
		manufacturers.POST("/", h.CreateManufacturer)
		manufacturers.GET("/:id/", h.GetManufacturer)
		manufacturers.POST("/:id/update/", h.UpdateManufacturer)
		manufacturers.POST("/:id/delete/", h.DeleteManufacturer)

		cars := auth.Group("/cars")
		cars.GET("/", h.ListCars)
		cars.POST("/", h.CreateCar)
		cars.GET("/:id/", h.GetCar)
		cars.POST("/:id/update/", h.UpdateCar)
		cars.POST("/:id/delete/", h.DeleteCar)
		cars.POST("/:id/toggle-assign/", h.ToggleAssign)

		drivers := auth.Group("/drivers")
		drivers.GET("/", h.ListDrivers)
		drivers.POST("/", h.CreateDriver)
		drivers.GET("/:id/", h.GetDriver)
		drivers.POST("/:id/update/", h.UpdateDriverLicense)
		drivers.POST("/:id/delete/", h.DeleteDriver)
	}

	return r
}

func (h *Handler) Index(c *gin.Context) {
	stats, err := h.services.Stats().Index(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
