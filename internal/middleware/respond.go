package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/adboard/adboard/internal/apperr"
)

// errorBody is the JSON shape of every error written by this package.
type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeAppError(w, r, apperr.New(status, msg))
}

func writeAppError(w http.ResponseWriter, r *http.Request, e *apperr.Error) {
	msg, ok := e.Message.(string)
	if !ok {
		msg = fmt.Sprint(e.Message)
	}
	render.Status(r, e.Status)
	render.JSON(w, r, errorBody{Error: msg})
}
