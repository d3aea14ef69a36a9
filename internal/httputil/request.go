package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// MaxBodyBytes caps request bodies. Whole books are uploaded in one PUT.
const MaxBodyBytes = 10 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// Numbers decode as json.Number so the migrator sees them as written.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	// Unknown fields are allowed: uploaded books carry fields from older
	// editors that the migrator keeps as pass-through data.
	decoder.UseNumber()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// IsBodyTooLarge reports whether err came from exceeding MaxBodyBytes
func IsBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}
