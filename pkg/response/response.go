// Package response renders the body shared by every API endpoint:
//
//	{"status":422,"message":"Validation failed","errors":{"email":"..."}}
//
// status repeats the HTTP code; data carries the payload on success.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/nepkart/pkg/orm"
)

type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Page is the data of a paginated listing.
type Page struct {
	Items      interface{}    `json:"items"`
	Pagination orm.Pagination `json:"pagination"`
}

// Write encodes body as JSON with the given status. body.Status is
// filled in when left zero.
func Write(w http.ResponseWriter, status int, body Envelope) {
	if body.Status == 0 {
		body.Status = status
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func Success(w http.ResponseWriter, data interface{}) {
	Write(w, http.StatusOK, Envelope{Data: data})
}

func Paginated(w http.ResponseWriter, items interface{}, p orm.Pagination) {
	Success(w, Page{Items: items, Pagination: p})
}

func Error(w http.ResponseWriter, status int, message string) {
	Write(w, status, Envelope{Message: message})
}

// ValidationError is a 422 keyed by field name.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	Write(w, http.StatusUnprocessableEntity, Envelope{Message: "Validation failed", Errors: errs})
}

// Unauthorized is a 401; an empty message becomes "Unauthorized".
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = http.StatusText(http.StatusUnauthorized)
	}
	Error(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
}

func TooManyRequests(w http.ResponseWriter) {
	Error(w, http.StatusTooManyRequests, "Too many requests")
}
