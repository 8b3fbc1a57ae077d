package easypost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksync/stocksync/pkg/errors"
)

const trackerJSON = `{
	"id": "trk_123",
	"object": "Tracker",
	"tracking_code": "1Z999AA10123456784",
	"status": "delivered",
	"carrier": "UPS",
	"public_url": "https://track.easypost.com/djE6dHJrXzEyMw",
	"tracking_details": [
		{"datetime": "2024-05-01T10:00:00Z", "status": "in_transit", "message": "Departed facility"},
		{"datetime": "2024-05-03T16:42:00Z", "status": "delivered", "message": "Delivered, front door"}
	]
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{APIKey: "EZTK123", BaseURL: server.URL + "/v2"})
}

func TestCreateTracker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/trackers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "EZTK123", user)

		var body map[string]map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1Z999AA10123456784", body["tracker"]["tracking_code"])

		_, _ = w.Write([]byte(trackerJSON))
	})

	client := newTestClient(t, mux)
	tracker, err := client.CreateTracker(context.Background(), " 1Z999AA10123456784 ")
	require.NoError(t, err)

	assert.Equal(t, "trk_123", tracker.ID)
	assert.Equal(t, "https://track.easypost.com/djE6dHJrXzEyMw", tracker.PublicURL)
	assert.True(t, tracker.Delivered())

	last, ok := tracker.LastEvent()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 3, 16, 42, 0, 0, time.UTC), last.Datetime.UTC())
}

func TestCreateTrackerRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/trackers", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"TRACKER.TRACKING_CODE.INVALID","message":"Invalid tracking code"}}`))
	})

	client := newTestClient(t, mux)
	_, err := client.CreateTracker(context.Background(), "BOGUS")
	require.Error(t, err)

	var trackerErr *errors.TrackerError
	require.ErrorAs(t, err, &trackerErr)
	assert.Equal(t, "BOGUS", trackerErr.TrackingNumber)
	assert.True(t, errors.IsTrackerError(err))
	assert.False(t, errors.IsFatal(err))
	assert.Contains(t, err.Error(), "TRACKING_CODE.INVALID")
}

func TestCreateTrackerBadKeyIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/trackers", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	client := newTestClient(t, mux)
	_, err := client.CreateTracker(context.Background(), "1Z999AA10123456784")
	require.Error(t, err)
	assert.True(t, errors.IsTrackerError(err))
	assert.True(t, errors.IsFatal(err))
}

func TestCreateTrackerEmptyNumber(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	_, err := client.CreateTracker(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, errors.IsTrackerError(err))
}

func TestGetTracker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/trackers/trk_123", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(trackerJSON))
	})

	client := newTestClient(t, mux)
	tracker, err := client.GetTracker(context.Background(), "trk_123")
	require.NoError(t, err)
	assert.Len(t, tracker.Events, 2)
	assert.Equal(t, "UPS", tracker.Carrier)

	_, err = client.GetTracker(context.Background(), "")
	assert.True(t, errors.IsValidationError(err))
}

func TestDeriveTrackingURL(t *testing.T) {
	client := NewClient(Config{})

	u, ok := client.DeriveTrackingURL("1Z999AA10123456784")
	assert.True(t, ok)
	assert.Equal(t, "https://www.ups.com/track?tracknum=1Z999AA10123456784", u)

	u, ok = client.DeriveTrackingURL("ZZ0000000000000")
	assert.True(t, ok)
	assert.Equal(t, "https://parcelsapp.com/en/tracking/ZZ0000000000000", u)

	_, ok = client.DeriveTrackingURL("")
	assert.False(t, ok)
}
