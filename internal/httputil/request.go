package httputil

import (
	"fmt"
	"net/http"
	"strconv"

	"tgdrive/internal/domain"
)

// PathInt64 parses a numeric path parameter such as {id}
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return 0, &domain.ValidationError{Message: fmt.Sprintf("%s is required", name)}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ValidationError{Message: fmt.Sprintf("%s must be an integer, got %q", name, raw)}
	}
	return v, nil
}
