package httpapi

import (
	"io"
	"net/http"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Message string `json:"message"`
	Label   string `json:"label"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	message, label := apperr.Message(err)
	writeErrorStatus(w, apperr.HTTPStatus(err), message, label)
}

func writeErrorStatus(w http.ResponseWriter, status int, message, label string) {
	writeJSON(w, status, errorBody{Error: errorPayload{Message: message, Label: label}})
}

func notFoundRoute() error {
	return apperr.NotFound("Router", "route not found")
}

// decodeBody читает JSON тело запроса в v
func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.InvalidRequest("Request", "failed to read request body")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperr.InvalidRequest("Request", "request body is not valid JSON")
	}
	return nil
}
