package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"city311/model"
)

// Geocoder is the provider contract. Implementations must normalize
// their response shapes to AddressRecord; the verifier never lets a
// provider error reach the conversation.
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, query, cityHint, stateHint string) (*model.AddressRecord, error)
}

var streetAbbrevs = map[string]string{
	"ln":   "lane",
	"rd":   "road",
	"st":   "street",
	"dr":   "drive",
	"ave":  "avenue",
	"blvd": "boulevard",
	"ct":   "court",
	"pl":   "place",
	"pkwy": "parkway",
	"hwy":  "highway",
}

// ExpandStreetAbbrevs rewrites common street-type abbreviations to
// their full words. Only whole whitespace-delimited tokens are
// rewritten, so ordinals like "21st" or "3rd" pass through; a trailing
// period on the abbreviation ("St.") is absorbed, other trailing
// punctuation is kept. Whitespace runs collapse to single spaces.
func ExpandStreetAbbrevs(addr string) string {
	words := strings.Fields(addr)
	for i, w := range words {
		trimmed := strings.TrimRight(w, ".,;:")
		full, ok := streetAbbrevs[strings.ToLower(trimmed)]
		if !ok {
			continue
		}
		rest := strings.TrimPrefix(w[len(trimmed):], ".")
		words[i] = full + rest
	}
	return strings.Join(words, " ")
}

// Verifier resolves free-text addresses through one or two geocoding
// providers and applies the jurisdiction-switch rule.
type Verifier struct {
	primary   Geocoder
	secondary Geocoder // nil unless enabled by config
	catalog   *Catalog
	log       *zap.SugaredLogger
}

func NewVerifier(primary, secondary Geocoder, catalog *Catalog, log *zap.SugaredLogger) *Verifier {
	return &Verifier{
		primary:   primary,
		secondary: secondary,
		catalog:   catalog,
		log:       log,
	}
}

// Verify geocodes rawAddress. Returns nil when nothing matched; all
// transport and parse failures collapse to nil as well.
func (v *Verifier) Verify(ctx context.Context, rawAddress, cityHint, stateHint string) *model.AddressRecord {
	query := ExpandStreetAbbrevs(strings.TrimSpace(rawAddress))
	if query == "" {
		return nil
	}

	if rec := v.tryProvider(ctx, v.primary, query, cityHint, stateHint); rec != nil {
		return rec
	}
	if v.secondary != nil {
		if rec := v.tryProvider(ctx, v.secondary, query, cityHint, stateHint); rec != nil {
			return rec
		}
	}
	return nil
}

// tryProvider queries once with the city/state hint and, if that finds
// nothing, once without it. The hint over-constrains when the citizen
// typed an address outside the assumed city.
func (v *Verifier) tryProvider(ctx context.Context, g Geocoder, query, cityHint, stateHint string) *model.AddressRecord {
	rec, err := g.Geocode(ctx, query, cityHint, stateHint)
	if err != nil {
		v.log.Warnw("geocode failed", "provider", g.Name(), "err", err)
		rec = nil
	}
	if rec != nil {
		return rec
	}
	if cityHint == "" && stateHint == "" {
		return nil
	}
	rec, err = g.Geocode(ctx, query, "", "")
	if err != nil {
		v.log.Warnw("geocode retry failed", "provider", g.Name(), "err", err)
		return nil
	}
	return rec
}

// VerifyField runs verification for an address-typed answer already
// stored on the session and returns the replies to surface. On a
// confident match to another configured jurisdiction it swaps the
// session's city profile; the stored free-text value survives either
// way.
func (v *Verifier) VerifyField(ctx context.Context, session *model.Session, field string) []string {
	fv := session.FilledFields[field]
	if fv == nil || fv.Value == nil {
		return nil
	}

	rec := v.Verify(ctx, *fv.Value, session.CityProfile.City, session.CityProfile.State)
	if rec == nil {
		return []string{"I couldn't verify that address, but no problem — I'll keep what you typed."}
	}

	fv.Address = rec
	replies := []string{fmt.Sprintf("Verified address: %s (via %s).", rec.FormattedAddress, rec.Provider)}

	if canonical, st, ok := v.catalog.Knows(rec.City); ok &&
		!strings.EqualFold(canonical, session.CityProfile.City) &&
		StateMatches(st, rec.State) {
		session.CityProfile = v.catalog.Adapt(canonical, "")
		replies = append(replies, fmt.Sprintf(
			"Your address is in %s, %s — I've switched to %s's service catalog.",
			session.CityProfile.City, session.CityProfile.State, session.CityProfile.City))
		v.log.Infow("city switched by address verification",
			"session_id", session.ID, "city", session.CityProfile.City)
	}
	return replies
}
