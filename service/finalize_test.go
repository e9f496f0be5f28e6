package service

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"city311/model"
)

var ticketIDPattern = regexp.MustCompile(`^[A-Z]{2}-\d{6}-\d{4}$`)

func TestNewTicketID(t *testing.T) {
	assert.Regexp(t, ticketIDPattern, NewTicketID("Raleigh"))
	assert.Regexp(t, ticketIDPattern, NewTicketID("Your City"))
	// Too short for a prefix: falls back to CT.
	assert.Regexp(t, `^CT-\d{6}-\d{4}$`, NewTicketID("X"))
	assert.Regexp(t, `^CT-\d{6}-\d{4}$`, NewTicketID(""))
}

func newFinalizerForTest() (*Finalizer, *memTicketStore) {
	store := &memTicketStore{}
	return NewFinalizer(store, zap.NewNop().Sugar()), store
}

func strptr(s string) *string { return &s }

func TestFinalizePersistsAndReplies(t *testing.T) {
	f, store := newFinalizerForTest()
	s := newCollectingSession("pothole")
	s.FilledFields = map[string]*model.FieldValue{
		"street_address":       {Value: strptr("123 Main Street")},
		"nearest_intersection": {Value: strptr("Main & Oak")},
		"description":          {Value: strptr("large hole")},
		"photo_url_optional":   {Value: nil},
	}

	ticket, reply := f.Finalize(context.Background(), s)

	assert.Regexp(t, ticketIDPattern, ticket.ID)
	assert.Equal(t, "pothole", ticket.Service)
	assert.Equal(t, "Your City", ticket.City)
	assert.Equal(t, 1, store.count())
	require.Len(t, s.TicketLog, 1)
	assert.Equal(t, ticket.ID, s.TicketLog[0].ID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(ticket.Payload), &payload))
	assert.Equal(t, "large hole", payload["description"])
	skipped, present := payload["photo_url_optional"]
	require.True(t, present, "skipped fields stay in the payload")
	assert.Nil(t, skipped)

	assert.Contains(t, reply, ticket.ID)
	assert.Contains(t, reply, "Your City, Your State")
	assert.Contains(t, reply, "https://example.org/forms/pothole")
	assert.Contains(t, reply, "~5 business days")
}

func TestFinalizeKeepsVerifiedAddress(t *testing.T) {
	f, _ := newFinalizerForTest()
	s := newCollectingSession("pothole")
	s.FilledFields = map[string]*model.FieldValue{
		"street_address": {
			Value: strptr("123 Main St"),
			Address: &model.AddressRecord{
				FormattedAddress: "123 Main Street, Raleigh, NC 27601",
				City:             "Raleigh",
				State:            "NC",
				Zip:              "27601",
				Lat:              35.7796,
				Lon:              -78.6382,
				Provider:         "nominatim",
			},
		},
		"description": {Value: strptr("large hole")},
	}

	ticket, _ := f.Finalize(context.Background(), s)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(ticket.Payload), &payload))
	// The raw answer stays the field value.
	assert.Equal(t, "123 Main St", payload["street_address"])

	verified, ok := payload["street_address_verified"].(map[string]any)
	require.True(t, ok, "verified record must survive into the payload")
	assert.Equal(t, "123 Main Street, Raleigh, NC 27601", verified["formatted_address"])
	assert.Equal(t, "nominatim", verified["provider"])
	assert.InDelta(t, 35.7796, verified["lat"], 0.0001)

	// Unverified fields carry no companion entry.
	_, ok = payload["description_verified"]
	assert.False(t, ok)
}

func TestFinalizeHighwayNote(t *testing.T) {
	f, _ := newFinalizerForTest()

	tests := []struct {
		name    string
		intent  string
		address string
		want    bool
	}{
		{"interstate marker", "pothole", "exit 12 on I-40 west", true},
		{"us route", "streetlight", "near US-1 and Walnut", true},
		{"nc route", "pothole", "on NC-54 past the bridge", true},
		{"highway word", "pothole", "old highway 70", true},
		{"plain street", "pothole", "123 Main Street", false},
		{"wrong intent", "stray_animal", "on I-40 shoulder", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newCollectingSession(tt.intent)
			field := "street_address"
			if tt.intent == "streetlight" {
				field = "nearest_address"
			}
			s.FilledFields = map[string]*model.FieldValue{
				field: {Value: strptr(tt.address)},
			}
			ticket, _ := f.Finalize(context.Background(), s)

			var payload map[string]any
			require.NoError(t, json.Unmarshal([]byte(ticket.Payload), &payload))
			_, noted := payload["state_highway_note"]
			assert.Equal(t, tt.want, noted)
		})
	}
}

func TestFinalizeTrashDayEstimate(t *testing.T) {
	f, _ := newFinalizerForTest()
	s := newCollectingSession("trash_schedule")
	s.FilledFields = map[string]*model.FieldValue{
		"street_address": {Value: strptr("456 Oak Ave")},
		"zip_optional":   {Value: strptr("27560")},
	}

	ticket, _ := f.Finalize(context.Background(), s)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(ticket.Payload), &payload))
	assert.Equal(t, "Tuesday", payload["estimated_pickup_day"])
}

func TestFinalizeNoTrashDayForUnknownStreet(t *testing.T) {
	f, _ := newFinalizerForTest()
	s := newCollectingSession("trash_schedule")
	s.FilledFields = map[string]*model.FieldValue{
		"street_address": {Value: strptr("7 Zanzibar Way")},
	}

	ticket, _ := f.Finalize(context.Background(), s)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(ticket.Payload), &payload))
	_, ok := payload["estimated_pickup_day"]
	assert.False(t, ok)
}
