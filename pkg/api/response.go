package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxifleet/pkg/forms"
	"taxifleet/pkg/logger"
	"taxifleet/service"
)

func (h *Handler) handleError(c *gin.Context, err error) {
	if errs, ok := forms.AsErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	h.log.Error("request failed",
		logger.Error(err),
		logger.String("method", c.Request.Method),
		logger.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to process request",
		"details": "Please try again later or contact support",
	})
}

// bindForm binds a JSON or form-encoded body into form. Values that cannot
// be decoded are answered with 400 and per-field errors.
func bindForm(c *gin.Context, form interface{}) bool {
	if err := c.ShouldBind(form); err != nil {
		rejectBinding(c, form, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, form interface{}) bool {
	if err := c.ShouldBindQuery(form); err != nil {
		rejectBinding(c, form, err)
		return false
	}
	return true
}

func rejectBinding(c *gin.Context, form interface{}, err error) {
	values := c.Request.Form
	if values == nil {
		values = c.Request.URL.Query()
	}
	c.JSON(http.StatusBadRequest, gin.H{"errors": forms.FromBindError(err, form, values)})
}

type idURI struct {
	ID int64 `uri:"id" binding:"required,gt=0"`
}

// pathID parses the :id parameter as a base-10 integer, answering 404 for
// anything that is not a positive one.
func pathID(c *gin.Context) (int64, bool) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uri.ID, true
}

type pageQuery struct {
	Page int `form:"page"`
}

// pageParam reads ?page=, defaulting to the first page.
func pageParam(c *gin.Context) int {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil || q.Page <= 0 {
		return 1
	}
	return q.Page
}
