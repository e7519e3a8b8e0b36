package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maldun/UltraMekCore/messages"
	"github.com/maldun/UltraMekCore/models"
)

const maxBodySize = 8 << 20

// ParseHandler serves POST /parse/{format}: the request body is run through
// one pipeline and the record is returned as JSON.
func (r *Router) ParseHandler(logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, req *http.Request) {
		format := models.Format(strings.ToLower(req.PathValue("format")))

		body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodySize))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, messages.CodeBadRequest, err.Error())
			return
		}

		rec, err := r.Parse(format, string(body))
		r.Metrics.RecordRequest(string(messages.MessageTypeParse), err)
		if err != nil {
			code := ErrorCode(err)
			logger.Info("parse request failed", "format", format, "code", code, "error", err)
			writeError(w, statusFor(code), code, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, rec)
	}
}

func statusFor(code string) int {
	switch code {
	case messages.CodeBadRequest, messages.CodeUnknownFormat, messages.CodeUnknownMessageType:
		return http.StatusBadRequest
	case messages.CodeMissingFile, messages.CodeUnitNotFound:
		return http.StatusNotFound
	case messages.CodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, messages.ErrorMessage{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
