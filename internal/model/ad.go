package model

import "time"

// Column bounds for ads.
const (
	MaxAdHeaderLength = 64
	MaxAdTextLength   = 256
)

// Ad is a classified advertisement owned by a User.
type Ad struct {
	ID           int64     `json:"id"`
	Header       string    `json:"header"`
	Text         string    `json:"text"`
	Price        int64     `json:"price"`
	CreationTime time.Time `json:"creation_time"`
	OwnerID      int64     `json:"owner_id"`
}

// AdPatch holds the optional fields of an ad update.
type AdPatch struct {
	Header  *string
	Text    *string
	Price   *int64
	OwnerID *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p AdPatch) IsEmpty() bool {
	return p.Header == nil && p.Text == nil && p.Price == nil && p.OwnerID == nil
}

// Apply copies the present fields onto a. CreationTime and ID are never touched.
func (p AdPatch) Apply(a *Ad) {
	if p.Header != nil {
		a.Header = *p.Header
	}
	if p.Text != nil {
		a.Text = *p.Text
	}
	if p.Price != nil {
		a.Price = *p.Price
	}
	if p.OwnerID != nil {
		a.OwnerID = *p.OwnerID
	}
}
