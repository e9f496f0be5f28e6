package service

import (
	"strings"

	"city311/model"
	"city311/utils"
)

// defaultServiceOrder fixes the enumeration order of the catalog.
var defaultServiceOrder = []string{
	"pothole",
	"trash_schedule",
	"noise_complaint",
	"streetlight",
	"stray_animal",
	"general_info",
}

func defaultServices() map[string]model.ServiceDescriptor {
	return map[string]model.ServiceDescriptor{
		"pothole": {
			Description: "Report a pothole or road surface issue",
			Fields:      []string{"street_address", "nearest_intersection", "description", "photo_url_optional"},
			Link:        "https://example.org/forms/pothole",
			SLADays:     5,
		},
		"trash_schedule": {
			Description: "Find trash & recycling pickup day",
			Fields:      []string{"street_address", "zip_optional"},
			Link:        "https://example.org/trash-schedule",
		},
		"noise_complaint": {
			Description: "Report excessive noise",
			Fields:      []string{"incident_time", "location", "description"},
			Link:        "https://example.org/forms/noise",
		},
		"streetlight": {
			Description: "Report a streetlight outage",
			Fields:      []string{"pole_number_optional", "nearest_address", "description"},
			Link:        "https://example.org/forms/streetlight",
			SLADays:     7,
		},
		"stray_animal": {
			Description: "Report a stray or lost animal",
			Fields:      []string{"location", "animal_type", "description"},
			Link:        "https://example.org/forms/animal",
		},
		"general_info": {
			Description: "Hours, phone numbers, permits, parks, and other info",
			Fields:      []string{},
			Link:        "https://example.org/city-info",
		},
	}
}

// cityStates lists the jurisdictions this deployment knows. Any other
// city resolves to the default template. Address verification can only
// switch the session to a city listed here.
var cityStates = map[string]string{
	"Morrisville": "North Carolina",
	"Raleigh":     "North Carolina",
	"Cary":        "North Carolina",
}

// usStateAbbr maps full state names to USPS abbreviations. Geocoding
// providers disagree on which form they return, so jurisdiction checks
// accept either.
var usStateAbbr = map[string]string{
	"north carolina": "nc",
	"south carolina": "sc",
	"virginia":       "va",
	"georgia":        "ga",
	"tennessee":      "tn",
}

// Catalog resolves city names to service maps. The templates are
// read-only; every profile handed out is a deep copy.
type Catalog struct{}

func NewCatalog() *Catalog { return &Catalog{} }

// Lookup returns the service map for a city, falling back to the
// default template for unrecognized cities.
func (c *Catalog) Lookup(city string) map[string]model.ServiceDescriptor {
	// All known cities currently share the default template; the
	// split is by jurisdiction, not by service content.
	return defaultServices()
}

// Knows reports whether city is a configured jurisdiction, returning
// its canonical name and state.
func (c *Catalog) Knows(city string) (string, string, bool) {
	want := utils.Normalize(city)
	for name, state := range cityStates {
		if utils.Normalize(name) == want {
			return name, state, true
		}
	}
	return "", "", false
}

// Adapt builds a fresh profile for a city. The service map and its
// field slices are copied so one session's profile can never mutate
// the template or another session's.
func (c *Catalog) Adapt(city, state string) model.CityProfile {
	if city == "" {
		city = "Your City"
	}
	if state == "" {
		state = "Your State"
	}
	if canonical, st, ok := c.Knows(city); ok {
		city = canonical
		if state == "Your State" || state == "" {
			state = st
		}
	}

	src := c.Lookup(city)
	services := make(map[string]model.ServiceDescriptor, len(src))
	for key, svc := range src {
		fields := make([]string, len(svc.Fields))
		copy(fields, svc.Fields)
		svc.Fields = fields
		services[key] = svc
	}

	order := make([]string, len(defaultServiceOrder))
	copy(order, defaultServiceOrder)

	return model.CityProfile{
		City:         city,
		State:        state,
		Services:     services,
		ServiceOrder: order,
	}
}

// StateMatches reports whether a provider-returned state names the
// same jurisdiction as the profile's state, accepting the full name or
// the USPS abbreviation in either position.
func StateMatches(profileState, resolvedState string) bool {
	a := utils.Normalize(profileState)
	b := utils.Normalize(resolvedState)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if abbr, ok := usStateAbbr[a]; ok && abbr == b {
		return true
	}
	if abbr, ok := usStateAbbr[b]; ok && abbr == a {
		return true
	}
	return false
}

// IsOptionalField reports whether a field may be skipped, by the
// naming convention used in the catalog.
func IsOptionalField(field string) bool {
	return strings.HasSuffix(field, "_optional")
}
