package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const ContentTypeJSON = "application/json"

type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON marshals v and writes it with the given status code.
func WriteJSON(w http.ResponseWriter, v interface{}, statusCode int) {
	resp, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		w.Header().Set("Content-Type", ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(statusCode)

	if _, err := w.Write(resp); err != nil {
		log.Errorf("failed to write response [%s]: %s", resp, err)
	}
}

func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{Error: message}, statusCode)
}
