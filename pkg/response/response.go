// Package response writes shopdesk's JSON bodies.
//
// Successful calls return the resource itself or {"message": ..., ...}.
// Failures return {"message": ...}; validation failures add
// {"errors": {"field": ["message"]}}.
package response

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
)

// M is a JSON object literal.
type M = map[string]interface{}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Success sends a 200 with v as the body.
func Success(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// Created sends a 201 with v as the body.
func Created(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusCreated, v)
}

// Message sends {"message": msg} merged with extra.
func Message(w http.ResponseWriter, status int, msg string, extra M) {
	body := M{"message": msg}
	for k, v := range extra {
		body[k] = v
	}
	JSON(w, status, body)
}

// Error sends {"message": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, M{"message": msg})
}

// ValidationError sends a 422 with Laravel's field → []message shape.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, M{
		"message": apperr.ErrValidation.Public(),
		"errors":  fieldErrors(errs),
	})
}

// Fail renders err according to its apperr kind.
func Fail(w http.ResponseWriter, err error) {
	ae := apperr.As(err)
	if ae.Kind == apperr.ValidationFailed && len(ae.Fields) > 0 {
		JSON(w, ae.Kind.Status(), M{
			"message": ae.Public(),
			"errors":  fieldErrors(ae.Fields),
		})
		return
	}
	Error(w, ae.Kind.Status(), ae.Public())
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, apperr.ErrUnauthenticated.Public())
}

func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, apperr.ErrAccessDenied.Public())
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, apperr.ErrNotFound.Public())
}

func fieldErrors(errs map[string]string) map[string][]string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string][]string, len(errs))
	for _, k := range keys {
		out[k] = []string{errs[k]}
	}
	return out
}
