package types

import "time"

// TrackerStatusDelivered is the terminal tracker status.
const TrackerStatusDelivered = "delivered"

// Tracker monitors the delivery status of one shipment.
type Tracker struct {
	ID           string          `json:"id"`
	TrackingCode string          `json:"tracking_code"`
	Carrier      string          `json:"carrier"`
	Status       string          `json:"status"`
	PublicURL    string          `json:"public_url"`
	Events       []TrackingEvent `json:"tracking_details"`
}

// TrackingEvent is one entry of a tracker's history, oldest first.
type TrackingEvent struct {
	Datetime time.Time `json:"datetime"`
	Status   string    `json:"status"`
	Message  string    `json:"message"`
}

// Delivered reports whether the tracker reached the terminal status.
func (t Tracker) Delivered() bool {
	return t.Status == TrackerStatusDelivered
}

// LastEvent returns the most recent event in the history.
func (t Tracker) LastEvent() (TrackingEvent, bool) {
	if len(t.Events) == 0 {
		return TrackingEvent{}, false
	}
	return t.Events[len(t.Events)-1], true
}
