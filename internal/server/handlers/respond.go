package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/komentar/pkg/komentar/internalerr"
)

// respondWithJSON writes payload as a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError writes {"error": message}. Server errors are logged.
func respondWithError(w http.ResponseWriter, log logrus.FieldLogger, code int, message string, err error) {
	response := map[string]string{"error": message}

	if err != nil && code >= 500 && log != nil {
		log.WithError(err).WithField("code", code).Error(message)
	}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, internalerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internalerr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, internalerr.ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, internalerr.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondWithDomainError picks the status from err. 4xx responses carry the
// error text; everything else gets message.
func respondWithDomainError(w http.ResponseWriter, log logrus.FieldLogger, message string, err error) {
	code := statusFor(err)
	if code < 500 {
		respondWithError(w, log, code, err.Error(), nil)
		return
	}
	respondWithError(w, log, code, message, err)
}
