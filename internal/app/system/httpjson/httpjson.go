// Package httpjson writes JSON responses and decodes JSON request bodies
// for the API handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// ErrBadRequest wraps every decode failure.
var ErrBadRequest = errors.New("invalid request body")

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

// Decode reads one JSON object from the body into v. Unknown fields are
// rejected.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", ErrBadRequest)
	}
	return nil
}

// IntParam reads an integer query parameter, returning def when it is
// absent. ok is false when the parameter is present but not an integer.
func IntParam(r *http.Request, name string, def int) (v int, ok bool) {
	s := query.Get(r, name)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def, false
	}
	return n, true
}
