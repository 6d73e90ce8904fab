package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxRequestBody bounds JSON bodies of the API.
const maxRequestBody = 4 << 20

// decodeJSON reads the request body into v. With optional set an empty
// body leaves v untouched.
func decodeJSON(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

func noteID(r *http.Request) string {
	return chi.URLParam(r, "noteID")
}
