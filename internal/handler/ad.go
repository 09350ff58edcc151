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

const adIDParam = "ad_id"

// AdHandler serves the /ads resource.
type AdHandler struct {
	*Handler
	ads *service.AdService
}

// NewAdHandler creates a new AdHandler.
func NewAdHandler(base *Handler, ads *service.AdService) *AdHandler {
	return &AdHandler{Handler: base, ads: ads}
}

// Create handles POST /ads/.
func (h *AdHandler) Create() http.HandlerFunc {
	return h.endpoint(func(r *http.Request, store session.Store) (any, error) {
		var req schema.CreateAd
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}

		ad, err := h.ads.Create(r.Context(), store, service.CreateAdInput{
			Header:  req.Header,
			Text:    req.Text,
			Price:   req.Price,
			OwnerID: req.OwnerID,
		})
		if err != nil {
			return nil, adError(err, req.OwnerID)
		}
		return dto.NewAdResponse(ad), nil
	})
}

// Get handles GET /ads/{ad_id}/.
func (h *AdHandler) Get() http.HandlerFunc {
	return h.endpoint(func(r *http.Request, store session.Store) (any, error) {
		id, ok := pathID(r, adIDParam)
		if !ok {
			return nil, apperr.NotFound("ad not found")
		}

		ad, err := h.ads.Get(r.Context(), store, id)
		if err != nil {
			return nil, adError(err, 0)
		}
		return dto.NewAdResponse(ad), nil
	})
}

// Update handles PATCH /ads/{ad_id}/.
func (h *AdHandler) Update() http.HandlerFunc {
	return h.endpoint(func(r *http.Request, store session.Store) (any, error) {
		id, ok := pathID(r, adIDParam)
		if !ok {
			return nil, apperr.NotFound("ad not found")
		}

		var req schema.UpdateAd
		if err := decodeBody(r, &req); err != nil {
			return nil, err
		}

		ad, err := h.ads.Update(r.Context(), store, id, req.Patch())
		if err != nil {
			var ownerID int64
			if req.OwnerID != nil {
				ownerID = *req.OwnerID
			}
			return nil, adError(err, ownerID)
		}
		return dto.NewAdResponse(ad), nil
	})
}

// Delete handles DELETE /ads/{ad_id}/.
func (h *AdHandler) Delete() http.HandlerFunc {
	return h.endpoint(func(r *http.Request, store session.Store) (any, error) {
		id, ok := pathID(r, adIDParam)
		if !ok {
			return nil, apperr.NotFound("ad not found")
		}

		if err := h.ads.Delete(r.Context(), store, id); err != nil {
			return nil, adError(err, 0)
		}
		return dto.Deleted, nil
	})
}

// adError maps service errors to responses. An unknown owner is reported as a
// field error on owner_id, like any other invalid input.
func adError(err error, ownerID int64) error {
	switch {
	case errors.Is(err, service.ErrAdNotFound):
		return apperr.NotFound("ad not found")
	case errors.Is(err, service.ErrAdExists):
		return apperr.Conflict("ads already exists")
	case errors.Is(err, service.ErrOwnerNotFound):
		return apperr.BadRequest(schema.Errors{{
			Type:  schema.TypeForeignKey,
			Loc:   []string{"owner_id"},
			Msg:   "User with this id does not exist",
			Input: ownerID,
		}})
	default:
		return err
	}
}
