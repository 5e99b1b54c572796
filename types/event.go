package types

import "time"

// PropertyCreatedEvent is published after a listing has been persisted.
type PropertyCreatedEvent struct {
	PropertyID    int       `json:"property_id"`
	HostID        int       `json:"host_id"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	PricePerNight float64   `json:"price_per_night"`
	Image         *string   `json:"image,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewPropertyCreatedEvent builds the event payload for p.
func NewPropertyCreatedEvent(p Property) PropertyCreatedEvent {
	return PropertyCreatedEvent{
		PropertyID:    p.ID,
		HostID:        p.HostID,
		Title:         p.Title,
		Location:      p.Location,
		PricePerNight: p.PricePerNight,
		Image:         p.Image,
		CreatedAt:     p.CreatedAt,
	}
}
