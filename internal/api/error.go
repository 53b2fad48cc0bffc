package api

import "net/http"

// User-facing transport failure messages, kept verbatim from the web client.
const (
	msgTimeout    = "Requisição expirada."
	msgConnection = "Falha de conexão."
	msgGeneric    = "Erro na requisição"
)

// Error is a non-2xx response from the backend. Payload holds the parsed
// response body (a map for JSON objects, a string for anything else).
type Error struct {
	Status  int
	Payload any
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// errorMessage resolves the human message for a failed response:
// payload detail, then erro, then the HTTP status text, then a generic
// fallback.
func errorMessage(status int, payload any) string {
	if m, ok := payload.(map[string]any); ok {
		if d, ok := m["detail"].(string); ok && d != "" {
			return d
		}
		if e, ok := m["erro"].(string); ok && e != "" {
			return e
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return msgGeneric
}
