package types

import "time"

// Property is a rental listing owned by exactly one host.
type Property struct {
	// ID is the unique identifier of the property.
	ID int `json:"id" db:"id"`

	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Location    string `json:"location" db:"location"`

	// PricePerNight is the nightly rate. It is never negative.
	PricePerNight float64 `json:"price_per_night" db:"price_per_night"`

	// Image is the sanitized filename of the uploaded picture, without any
	// directory prefix. Nil when the listing has no image.
	Image *string `json:"image,omitempty" db:"image"`

	// HostID references the owning User.
	HostID int `json:"host_id" db:"host_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasImage reports whether an image was stored for the listing.
func (p Property) HasImage() bool {
	return p.Image != nil && *p.Image != ""
}

// ImageName returns the stored filename, or "" when there is none.
func (p Property) ImageName() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}
