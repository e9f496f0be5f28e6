package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"city311/model"
	"city311/utils"
)

// TicketStore persists finalized tickets. Saving the same ticket id
// twice overwrites (upsert); the finalizer never retries.
type TicketStore interface {
	Save(ctx context.Context, ticket *model.Ticket) error
}

// highwayIndicators mark an address as likely state-maintained. The
// leading spaces keep "i-" from matching inside words; values are
// space-padded before the scan so boundary hits still count.
var highwayIndicators = []string{" i-", " us-", " nc-", "interstate", "highway", "hwy"}

// highwayNoteIntents are the services whose addresses get the
// state-maintenance advisory.
var highwayNoteIntents = map[string]bool{
	"pothole":     true,
	"streetlight": true,
}

// trashDayByStreet is a demo-grade heuristic, not authoritative; real
// pickup schedules come from the sanitation portal. Ordered so an
// address hitting two keywords always gets the same answer.
var trashDayByStreet = []struct {
	keyword string
	day     string
}{
	{"main", "Monday"},
	{"oak", "Tuesday"},
	{"maple", "Wednesday"},
	{"elm", "Thursday"},
	{"pine", "Friday"},
	{"church", "Monday"},
}

// Finalizer assembles completed forms into tickets.
type Finalizer struct {
	store TicketStore
	log   *zap.SugaredLogger
}

func NewFinalizer(store TicketStore, log *zap.SugaredLogger) *Finalizer {
	return &Finalizer{store: store, log: log}
}

// NewTicketID builds a demo-grade ticket id: two-letter city prefix,
// yymmdd, 4-digit random suffix. Uniqueness is probabilistic only; a
// collision overwrites on save.
func NewTicketID(city string) string {
	prefix := "CT"
	letters := make([]rune, 0, 2)
	for _, r := range strings.ToUpper(city) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
		}
		if len(letters) == 2 {
			break
		}
	}
	if len(letters) == 2 {
		prefix = string(letters)
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, time.Now().Format("060102"), 1000+rand.Intn(9000))
}

// Finalize snapshots the session's filled fields into a ticket,
// attaches derived annotations, persists it, appends it to the
// session's ticket log and returns the confirmation reply.
func (f *Finalizer) Finalize(ctx context.Context, session *model.Session) (model.Ticket, string) {
	intent := session.ActiveIntent
	profile := session.CityProfile
	svc := profile.Services[intent]

	payload := make(map[string]any, len(session.FilledFields)+2)
	for field, fv := range session.FilledFields {
		if fv == nil {
			payload[field] = nil
			continue
		}
		if fv.Value == nil {
			payload[field] = nil
		} else {
			payload[field] = *fv.Value
		}
		// The geocoded match rides along so the export keeps the
		// standardized address, coordinates and provider.
		if fv.Address != nil {
			payload[field+"_verified"] = fv.Address
		}
	}

	if note := f.highwayNote(intent, session.FilledFields); note != "" {
		payload["state_highway_note"] = note
	}
	if intent == "trash_schedule" {
		if day := f.estimatePickupDay(session.FilledFields); day != "" {
			payload["estimated_pickup_day"] = day
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		f.log.Errorw("payload marshal failed", "intent", intent, "err", err)
		raw = []byte("{}")
	}

	ticket := model.Ticket{
		ID:        NewTicketID(profile.City),
		Service:   intent,
		City:      profile.City,
		State:     profile.State,
		Payload:   string(raw),
		CreatedAt: time.Now().Truncate(time.Second),
	}

	// Fire and forget: a store failure is the store's problem, the
	// citizen still gets a confirmation.
	if err := f.store.Save(ctx, &ticket); err != nil {
		f.log.Errorw("ticket persist failed", "ticket_id", ticket.ID, "err", err)
	}
	session.TicketLog = append(session.TicketLog, ticket)

	var b strings.Builder
	fmt.Fprintf(&b, "Submitted your %s request.\n", strings.ReplaceAll(intent, "_", " "))
	fmt.Fprintf(&b, "- Ticket ID: %s\n", ticket.ID)
	fmt.Fprintf(&b, "- City: %s, %s\n", profile.City, profile.State)
	fmt.Fprintf(&b, "- Intake fields: %s\n", string(raw))
	if svc.Link != "" {
		fmt.Fprintf(&b, "- Reference: %s\n", svc.Link)
	}
	if svc.SLADays > 0 {
		fmt.Fprintf(&b, "- Estimated resolution target: ~%d business days\n", svc.SLADays)
	}
	b.WriteString("\nAnything else I can do? Type 'menu' to see options.")

	return ticket, b.String()
}

// highwayNote scans the address-typed answers of pothole/streetlight
// forms for state-route indicators. Advisory only, routing unchanged.
func (f *Finalizer) highwayNote(intent string, filled map[string]*model.FieldValue) string {
	if !highwayNoteIntents[intent] {
		return ""
	}
	for field, fv := range filled {
		if !isAddressField(field) || fv == nil || fv.Value == nil {
			continue
		}
		padded := " " + utils.Normalize(*fv.Value)
		for _, ind := range highwayIndicators {
			if strings.Contains(padded, ind) {
				return "Address appears to be on a state-maintained route; the state DOT may handle the repair."
			}
		}
	}
	return ""
}

func (f *Finalizer) estimatePickupDay(filled map[string]*model.FieldValue) string {
	fv := filled["street_address"]
	if fv == nil || fv.Value == nil {
		return ""
	}
	addr := utils.Normalize(*fv.Value)
	for _, entry := range trashDayByStreet {
		if strings.Contains(addr, entry.keyword) {
			return entry.day
		}
	}
	return ""
}
