// Package controllers adapts HTTP requests onto the services and maps
// service errors onto status codes.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/pkg/ctx"
)

// ErrorHeader carries the failure message for clients that only read
// headers.
const ErrorHeader = "X-Error-Message"

// message returns the text a client may see for err.
func message(err error) string {
	var (
		nf    *services.NotFoundError
		short *services.InsufficientStockError
		verr  *services.ValidationError
	)
	switch {
	case errors.As(err, &nf):
		return nf.Error()
	case errors.As(err, &short):
		return short.Error()
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, services.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, services.ErrConflict):
		return "Resource already exists"
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, services.ErrNoStorage):
		return "Image storage is not configured"
	default:
		return "Internal server error"
	}
}

// fail writes the response for a failed read or admin write.
func fail(c *ctx.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Fields)
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(message(err))
	case errors.Is(err, services.ErrInsufficientStock):
		c.Error(http.StatusBadRequest, message(err))
	case errors.Is(err, services.ErrConflict):
		c.Error(http.StatusConflict, message(err))
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(message(err))
	case errors.Is(err, services.ErrNoStorage):
		c.Error(http.StatusServiceUnavailable, message(err))
	default:
		c.Logger().Error("request failed", "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, message(err))
	}
}

// failCheckout writes the response for a rejected checkout: anything the
// shopper can fix is a 400 with the reason in ErrorHeader.
func failCheckout(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrValidation):
		msg := message(err)
		c.SetHeader(ErrorHeader, msg)
		c.Error(http.StatusBadRequest, msg)
	case errors.Is(err, services.ErrConflict):
		c.SetHeader(ErrorHeader, "Order could not be created, please retry")
		c.Error(http.StatusConflict, "Order could not be created, please retry")
	default:
		c.Logger().Error("checkout failed", "error", err)
		c.SetHeader(ErrorHeader, message(err))
		c.Error(http.StatusInternalServerError, message(err))
	}
}
