// Package httpx provides the uniform JSON response envelope shared by every
// API endpoint, including middleware failures.
package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the wire shape of every API response. Status mirrors the
// transport status at the content level; it does not replace it.
type Envelope struct {
	Status   string    `json:"status"`
	Message  string    `json:"message"`
	DateTime time.Time `json:"dateTime"`
	Data     any       `json:"data,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Success writes a success envelope with the given status code.
func Success(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{
		Status:   "success",
		Message:  message,
		DateTime: time.Now().UTC(),
		Data:     data,
	})
}

// Fail writes an error envelope with an explicit status code. The code string
// is machine-oriented, the message human-oriented.
func Fail(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Envelope{
		Status:   "error",
		Message:  message,
		DateTime: time.Now().UTC(),
		Error:    code,
	})
}

// DecodeJSON decodes the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
