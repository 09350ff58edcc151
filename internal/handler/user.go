package handler

import (
	"errors"
	"net/http"

	"github.com/adboard/adboard/internal/apperr"
	"github.com/adboard/adboard/internal/handler/dto"
	"github.com/adboard/adboard/internal/schema"
	"github.com/adboard/adboard/internal/service"
	"github.com/adboard/adboard/internal/session"
)

const userIDParam = "user_id"

// UserHandler serves the /user resource.
type UserHandler struct {
	*Handler
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(base *Handler, users *service.UserService) *UserHandler {
	return &UserHandler{Handler: base, users: users}
}

// Create handles POST /user/.
func (h *UserHandler) Create() http.HandlerFunc {
	return h.endpoint(func(r *http.Request, store session.Store) (any, error) {
		var req schema.CreateUser
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}

		user, err := h.users.Create(r.Context(), store, service.CreateUserInput{
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			return nil, userError(err)
		}
		return dto.NewUserResponse(user), nil
	})
}

// Get handles GET /user/{user_id}/.
func (h *UserHandler) Get() http.HandlerFunc {
	return h.endpoint(func(r *http.Request, store session.Store) (any, error) {
		id, ok := pathID(r, userIDParam)
		if !ok {
			return nil, apperr.NotFound("user not found")
		}

		user, err := h.users.Get(r.Context(), store, id)
		if err != nil {
			return nil, userError(err)
		}
		return dto.NewUserResponse(user), nil
	})
}

// Update handles PATCH /user/{user_id}/.
func (h *UserHandler) Update() http.HandlerFunc {
	return h.endpoint(func(r *http.Request, store session.Store) (any, error) {
		id, ok := pathID(r, userIDParam)
		if !ok {
			return nil, apperr.NotFound("user not found")
		}

		var req schema.UpdateUser
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}

		user, err := h.users.Update(r.Context(), store, id, service.UpdateUserInput{
			Name:     req.Name,
			Password: req.Password,
		})
		if err != nil {
			return nil, userError(err)
		}
		return dto.NewUserResponse(user), nil
	})
}

// Delete handles DELETE /user/{user_id}/.
func (h *UserHandler) Delete() http.HandlerFunc {
	return h.endpoint(func(r *http.Request, store session.Store) (any, error) {
		id, ok := pathID(r, userIDParam)
		if !ok {
			return nil, apperr.NotFound("user not found")
		}

		if err := h.users.Delete(r.Context(), store, id); err != nil {
			return nil, userError(err)
		}
		return dto.Deleted, nil
	})
}

// Login handles POST /user/login/.
func (h *UserHandler) Login() http.HandlerFunc {
	return h.endpoint(func(r *http.Request, store session.Store) (any, error) {
		var req schema.Login
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}

		user, err := h.users.Authenticate(r.Context(), store, req.Name, req.Password)
		if err != nil {
			return nil, userError(err)
		}
		return dto.NewUserResponse(user), nil
	})
}

func userError(err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return apperr.NotFound("user not found")
	case errors.Is(err, service.ErrUserExists):
		return apperr.Conflict("user already exists")
	case errors.Is(err, service.ErrUserHasAds):
		return apperr.Conflict("user has ads")
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid credentials")
	default:
		return err
	}
}
