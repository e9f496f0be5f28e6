package dao

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city311/model"
)

func newTestTicketStore(t *testing.T) *TicketStore {
	t.Helper()
	store, err := NewTicketStore(":memory:")
	require.NoError(t, err)
	return store
}

func TestTicketStoreUpsert(t *testing.T) {
	store := newTestTicketStore(t)
	ctx := context.Background()

	ticket := &model.Ticket{
		ID:        "YO-260823-1234",
		Service:   "pothole",
		City:      "Your City",
		State:     "Your State",
		Payload:   `{"street_address":"123 Main Street"}`,
		CreatedAt: time.Now().Truncate(time.Second),
	}
	require.NoError(t, store.Save(ctx, ticket))

	// Same id again: overwrite, not duplicate.
	ticket.Payload = `{"street_address":"124 Main Street"}`
	require.NoError(t, store.Save(ctx, ticket))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Payload, "124 Main Street")

	got, err := store.Get(ctx, "YO-260823-1234")
	require.NoError(t, err)
	assert.Equal(t, "pothole", got.Service)
}

func TestTicketStoreListNewestFirst(t *testing.T) {
	store := newTestTicketStore(t)
	ctx := context.Background()

	older := &model.Ticket{ID: "AA-260101-1111", Service: "pothole", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &model.Ticket{ID: "BB-260102-2222", Service: "streetlight", CreatedAt: time.Now()}
	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "BB-260102-2222", list[0].ID)
}

func TestWriteTicketCSV(t *testing.T) {
	created, err := time.Parse(time.RFC3339, "2026-08-23T10:30:00Z")
	require.NoError(t, err)

	tickets := []model.Ticket{{
		ID:        "RA-260823-4242",
		Service:   "trash_schedule",
		City:      "Raleigh",
		State:     "North Carolina",
		Payload:   `{"street_address":"456 Oak Avenue","zip_optional":null}`,
		CreatedAt: created,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteTicketCSV(&buf, tickets))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ticket_id", "service", "city", "state", "payload", "created_at"}, rows[0])
	assert.Equal(t, "RA-260823-4242", rows[1][0])
	assert.Equal(t, "2026-08-23T10:30:00Z", rows[1][5])
	assert.Contains(t, rows[1][4], "456 Oak Avenue")
}
