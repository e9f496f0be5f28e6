package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"city311/model"
)

// stubGeocoder scripts provider behavior per call.
type stubGeocoder struct {
	name  string
	fn    func(query, cityHint, stateHint string) (*model.AddressRecord, error)
	calls []geocodeCall
}

type geocodeCall struct {
	query, cityHint, stateHint string
}

func (g *stubGeocoder) Name() string {
	if g.name == "" {
		return "stub"
	}
	return g.name
}

func (g *stubGeocoder) Geocode(ctx context.Context, query, cityHint, stateHint string) (*model.AddressRecord, error) {
	g.calls = append(g.calls, geocodeCall{query, cityHint, stateHint})
	if g.fn == nil {
		return nil, nil
	}
	return g.fn(query, cityHint, stateHint)
}

// memTicketStore records every saved ticket, newest last.
type memTicketStore struct {
	mu    sync.Mutex
	saved []model.Ticket
}

func (s *memTicketStore) Save(ctx context.Context, ticket *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, *ticket)
	return nil
}

func (s *memTicketStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// newTestDialogue wires a dialogue service with stub collaborators.
func newTestDialogue(g Geocoder) (*DialogueService, *memTicketStore) {
	if g == nil {
		g = &stubGeocoder{}
	}
	log := zap.NewNop().Sugar()
	catalog := NewCatalog()
	store := &memTicketStore{}
	return NewDialogueService(
		catalog,
		NewVerifier(g, nil, catalog, log),
		NewFinalizer(store, log),
		log,
	), store
}
