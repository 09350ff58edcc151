// Package handler provides HTTP request handlers.
//
// Handler logic is written as endpoint functions returning a response value or
// an error. The endpoint adapter renders the value as JSON with status 200 and
// turns an *apperr.Error into {"error": Message} with its status. Any other
// error is logged and rendered as a 500.
package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/adboard/adboard/internal/apperr"
	"github.com/adboard/adboard/internal/handler/dto"
	"github.com/adboard/adboard/internal/middleware"
	"github.com/adboard/adboard/internal/schema"
	"github.com/adboard/adboard/internal/session"
)

// Handler holds what every resource handler shares.
type Handler struct {
	logger *slog.Logger
}

// New creates a new Handler instance.
func New(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusNotFound, dto.ErrorResponse{Error: "resource not found"})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusMethodNotAllowed, dto.ErrorResponse{Error: "method not allowed"})
}

// endpointFunc is the shape of handler logic. store is the request's session.
type endpointFunc func(r *http.Request, store session.Store) (any, error)

// endpoint adapts fn to an http.HandlerFunc.
func (h *Handler) endpoint(fn endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, ok := session.FromContext(r.Context())
		if !ok {
			h.respondError(w, r, errors.New("no session in request context"))
			return
		}

		result, err := fn(r, store)
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		respond(w, r, http.StatusOK, result)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		respond(w, r, appErr.Status, dto.ErrorResponse{Error: appErr.Message})
		return
	}

	h.logger.Error("unhandled error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	respond(w, r, http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
}

// respond writes data as JSON with the given status code.
func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

// decodeBody reads the request body into dst. Validation failures become a
// 400 carrying the field error list.
func decodeBody(r *http.Request, dst schema.Target) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			return apperr.New(http.StatusRequestEntityTooLarge, "request body too large")
		}
		return apperr.BadRequest("failed to read request body")
	}

	if err := schema.Decode(body, dst); err != nil {
		var fieldErrs schema.Errors
		if errors.As(err, &fieldErrs) {
			return apperr.BadRequest(fieldErrs)
		}
		return err
	}
	return nil
}

// pathID parses a positive 32-bit id from the named URL parameter.
// Only plain decimal digits are accepted.
func pathID(r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" || raw[0] < '0' || raw[0] > '9' {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
