package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/service"
)

const driverKey = "driver"

func (h *Handler) basicAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			unauthorized(c)
			return
		}

		d, err := h.services.Driver().Authenticate(c.Request.Context(), username, password)
		if errors.Is(err, service.ErrInvalidCredentials) {
			unauthorized(c)
			return
		}
		if err != nil {
			h.handleError(c, err)
			c.Abort()
			return
		}

		c.Set(driverKey, d)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="taxifleet"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided or are invalid"})
}

func currentDriver(c *gin.Context) *models.Driver {
	v, ok := c.Get(driverKey)
	if !ok {
		return nil
	}
	d, _ := v.(*models.Driver)
	return d
}

func requestLogger(log logger.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Debug("request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Any("latency", time.Since(start)),
		)
	}
}
