// Package handlers provides HTTP handlers for the catalog REST API
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	apperrors "github.com/esasma/API-Recettes/pkg/errors"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// MessageResponse is the body of writes that return nothing else
type MessageResponse struct {
	Message string `json:"message"`
}

// responder writes JSON bodies and AppErrors
type responder struct {
	logger *zap.Logger
}

// writeJSON writes a JSON response
func (h responder) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps err to its AppError status and the standard error body
func (h responder) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(err, "An unexpected error occurred")
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
			zap.String("stack", appErr.StackTrace),
		)
	}

	h.writeJSON(w, status, apperrors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context())))
}

// decode reads a single JSON document from the request body
func (h responder) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewBadRequestError("Request body is required")
		}
		return apperrors.NewBadRequestError(fmt.Sprintf("Invalid JSON body: %v", err))
	}
	return nil
}

// pathID parses a positive integer route parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError(fmt.Sprintf("%s must be a positive integer, got %q", name, raw))
	}
	return id, nil
}
