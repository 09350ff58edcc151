// Package dto provides Data Transfer Objects for API responses.
package dto

import (
	"time"

	"github.com/adboard/adboard/internal/model"
)

// UserResponse represents a user in API responses. It has no password field.
type UserResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	RegistrationTime time.Time `json:"registration_time"`
}

// NewUserResponse converts a model.User to UserResponse.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		RegistrationTime: u.RegistrationTime.UTC(),
	}
}

// AdResponse represents an ad in API responses.
type AdResponse struct {
	ID           int64     `json:"id"`
	Header       string    `json:"header"`
	Text         string    `json:"text"`
	Price        int64     `json:"price"`
	CreationTime time.Time `json:"creation_time"`
	OwnerID      int64     `json:"owner_id"`
}

// NewAdResponse converts a model.Ad to AdResponse.
func NewAdResponse(a *model.Ad) AdResponse {
	return AdResponse{
		ID:           a.ID,
		Header:       a.Header,
		Text:         a.Text,
		Price:        a.Price,
		CreationTime: a.CreationTime.UTC(),
		OwnerID:      a.OwnerID,
	}
}

// StatusResponse is returned by DELETE endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

// Deleted is the body of a successful DELETE.
var Deleted = StatusResponse{Status: "deleted"}

// ErrorResponse is the body of every error response. Error is a string or a
// list of field errors.
type ErrorResponse struct {
	Error any `json:"error"`
}
