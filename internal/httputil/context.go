package httputil

import (
	"context"
	"net/http"
)

type contextKey string

const operatorIDKey contextKey = "operatorID"

// WithOperatorID adds the authenticated operator to the request context
func WithOperatorID(r *http.Request, operatorID string) *http.Request {
	ctx := context.WithValue(r.Context(), operatorIDKey, operatorID)
	return r.WithContext(ctx)
}

// GetOperatorID returns the operator set by the auth middleware, or ""
func GetOperatorID(r *http.Request) string {
	id, _ := r.Context().Value(operatorIDKey).(string)
	return id
}
