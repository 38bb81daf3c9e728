package httputil

import (
	"encoding/json"
	"net/http"
)

// problemTypes maps the statuses the ops API returns to their RFC 9110 sections.
// Anything else is reported as about:blank.
var problemTypes = map[int]string{
	http.StatusBadRequest:          "https://www.rfc-editor.org/rfc/rfc9110#status.400",
	http.StatusUnauthorized:        "https://www.rfc-editor.org/rfc/rfc9110#status.401",
	http.StatusNotFound:            "https://www.rfc-editor.org/rfc/rfc9110#status.404",
	http.StatusConflict:            "https://www.rfc-editor.org/rfc/rfc9110#status.409",
	http.StatusInternalServerError: "https://www.rfc-editor.org/rfc/rfc9110#status.500",
	http.StatusBadGateway:          "https://www.rfc-editor.org/rfc/rfc9110#status.502",
	http.StatusServiceUnavailable:  "https://www.rfc-editor.org/rfc/rfc9110#status.503",
}

// ProblemDetail is an RFC 7807 body
type ProblemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// NewProblem builds the problem body for status
func NewProblem(status int, detail string) ProblemDetail {
	typ, ok := problemTypes[status]
	if !ok {
		typ = "about:blank"
	}
	return ProblemDetail{
		Type:   typ,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// RespondJSON marshals data before writing any header, so an encoding
// failure still produces a clean 500
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	write(w, "application/json", status, payload)
}

// RespondError writes a problem+json response
func RespondError(w http.ResponseWriter, status int, detail string) {
	// ProblemDetail has only string and int fields
	payload, _ := json.Marshal(NewProblem(status, detail))
	write(w, "application/problem+json", status, payload)
}

func write(w http.ResponseWriter, contentType string, status int, payload []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
