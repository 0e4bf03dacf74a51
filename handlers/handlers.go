// Package handlers exposes the services over HTTP with gin.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding tags on gin's validator engine
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}
	return v.RegisterValidation("menucategory", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
}

var statusByKind = map[services.Kind]int{
	services.KindValidation:        http.StatusBadRequest,
	services.KindUnauthorized:      http.StatusUnauthorized,
	services.KindForbidden:         http.StatusForbidden,
	services.KindNotFound:          http.StatusNotFound,
	services.KindConflict:          http.StatusConflict,
	services.KindInvalidTransition: http.StatusUnprocessableEntity,
}

// respondError writes {"error": msg} with the status matching the error kind.
// Internal errors are logged and never leak their cause.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		svcErr = &services.Error{Kind: services.KindInternal, Message: "Internal server error", Err: err}
	}
	status, ok := statusByKind[svcErr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := svcErr.Message
	if status == http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), "request failed",
			"request_id", middleware.RequestID(c), "route", c.FullPath(), "error", err)
		message = "Internal server error"
	}

	body := gin.H{"error": message}
	for k, v := range svcErr.Extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// bindJSON reports binding failures as 400 and returns false
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
