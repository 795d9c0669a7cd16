// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/shopdesk/config"
	"github.com/shashiranjanraj/shopdesk/pkg/validate"
)

// maxBodyBytes returns MAX_BODY_BYTES, default 4 MB.
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20
	}
	return n
}

// ErrMalformed wraps every decode failure so callers can tell a bad body
// from a validation failure.
var ErrMalformed = errors.New("malformed request body")

// JSON decodes r.Body into dest and validates it.
// An empty body decodes as {} so that required-field rules report normally.
// Returns (errs, nil) on validation failure and (nil, err) on a malformed
// or oversized body.
func JSON(w http.ResponseWriter, r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: larger than %d bytes", ErrMalformed, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
