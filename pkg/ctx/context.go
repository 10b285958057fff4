// Package ctx gives controllers one value per request for reading path and
// query parameters and for writing the API envelope.
//
//	r.Get("/orders/{id}", "orders.show", ctx.Wrap(oc.Show))
package ctx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/nepkart/pkg/bind"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/orm"
	"github.com/shashiranjanraj/nepkart/pkg/response"
)

// HandlerFunc is a controller action.
type HandlerFunc func(c *Context)

// Wrap adapts h to net/http.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(&Context{W: w, R: r})
	}
}

// Context is the request being served and its response writer.
type Context struct {
	W http.ResponseWriter
	R *http.Request

	status int
}

func (c *Context) Context() context.Context { return c.R.Context() }

// Logger carries the request id of the current request.
func (c *Context) Logger() *slog.Logger { return logger.WithCtx(c.R.Context()) }

func (c *Context) Param(key string) string { return chi.URLParam(c.R, key) }

// ParamUint parses a path parameter as a database id. Zero, negative and
// non-numeric values report false.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 0)
	return uint(n), err == nil && n > 0
}

func (c *Context) Query(key string) string { return c.R.URL.Query().Get(key) }

// QueryInt returns def when key is absent or not an integer.
func (c *Context) QueryInt(key string, def int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil {
		return n
	}
	return def
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-Ip, then
// the socket address.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := c.R.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(c.R.RemoteAddr)
	if err != nil {
		return c.R.RemoteAddr
	}
	return host
}

// BindJSON decodes and validates the body into dest. When it returns
// false a 400 or 422 has already been written.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	switch {
	case err != nil:
		c.Error(http.StatusBadRequest, err.Error())
	case len(errs) > 0:
		c.ValidationError(errs)
	default:
		return true
	}
	return false
}

func (c *Context) SetHeader(key, value string) { c.W.Header().Set(key, value) }

func (c *Context) reply(code int, body response.Envelope) {
	c.status = code
	body.Status = code
	response.Write(c.W, code, body)
}

func (c *Context) Success(data any) { c.reply(http.StatusOK, response.Envelope{Data: data}) }
func (c *Context) Created(data any) { c.reply(http.StatusCreated, response.Envelope{Data: data}) }

func (c *Context) Paginated(items any, p orm.Pagination) {
	c.Success(response.Page{Items: items, Pagination: p})
}

// NoContent writes a bodiless 204.
func (c *Context) NoContent() {
	c.status = http.StatusNoContent
	c.W.WriteHeader(http.StatusNoContent)
}

func (c *Context) Error(code int, message string) {
	c.reply(code, response.Envelope{Message: message})
}

func (c *Context) NotFound(message string) { c.Error(http.StatusNotFound, message) }

// Unauthorized defaults the message to "Unauthorized".
func (c *Context) Unauthorized(message string) {
	if message == "" {
		message = "Unauthorized"
	}
	c.Error(http.StatusUnauthorized, message)
}

// ValidationError writes a 422 listing the failing fields.
func (c *Context) ValidationError(errs map[string]string) {
	c.reply(http.StatusUnprocessableEntity, response.Envelope{Message: "Validation failed", Errors: errs})
}

// WrittenStatus is the status written so far, 0 before any write.
func (c *Context) WrittenStatus() int { return c.status }
