// Package handler contains the HTTP handlers of the review-links API:
// link management, feedback capture, admin sessions and the public review
// page. Request bodies are JSON, and so are all responses including errors.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/app/service"
	"github.com/atinyakov/go-review-links/internal/models"
	"github.com/atinyakov/go-review-links/internal/storage"
)

const (
	// requestTimeout bounds every store call made on behalf of a request.
	requestTimeout = 3 * time.Second

	maxBodyBytes = 1 << 20
)

// malformedRequest is a body the client has to fix. It carries the status
// to answer with.
type malformedRequest struct {
	status int
	msg    string
}

func (mr *malformedRequest) Error() string {
	return mr.msg
}

func badBody(format string, args ...any) *malformedRequest {
	return &malformedRequest{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// decodeJSONBody decodes a single JSON object from the request body into
// dst. Unknown fields are ignored so that clients may send back whole
// records.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, _ := strings.Cut(ct, ";")
		if !strings.EqualFold(strings.TrimSpace(mediaType), "application/json") {
			return &malformedRequest{
				status: http.StatusUnsupportedMediaType,
				msg:    "Content-Type header is not application/json",
			}
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError

		switch {
		case errors.As(err, &syntaxErr):
			return badBody("Request body contains badly-formed JSON (at position %d)", syntaxErr.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return badBody("Request body contains badly-formed JSON")
		case errors.As(err, &typeErr):
			return badBody("Request body contains an invalid value for the %q field (at position %d)", typeErr.Field, typeErr.Offset)
		case errors.Is(err, io.EOF):
			return badBody("Request body must not be empty")
		case errors.As(err, new(*http.MaxBytesError)):
			return &malformedRequest{
				status: http.StatusRequestEntityTooLarge,
				msg:    "Request body must not be larger than 1MB",
			}
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badBody("Request body must only contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

// writeDecodeError answers a failed decodeJSONBody.
func writeDecodeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var mr *malformedRequest
	if errors.As(err, &mr) {
		writeError(w, mr.status, mr.msg)
		return
	}

	logger.Error("cannot read request body", zap.Error(err))
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// writeServiceError maps service and store errors to status codes.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
