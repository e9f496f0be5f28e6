package service

import (
	"fmt"
	"regexp"
	"strings"

	"city311/model"
	"city311/utils"
)

const skipKeyword = "skip"

// requiredFields is the catalog-independent field list per intent,
// asked first and in this order. Service fields from the city profile
// follow, minus any overlap.
var requiredFields = map[string][]string{
	"pothole":         {"street_address", "description"},
	"trash_schedule":  {"street_address"},
	"noise_complaint": {"incident_time", "location", "description"},
	"streetlight":     {"nearest_address"},
	"stray_animal":    {"location", "animal_type"},
}

var fieldQuestions = map[string]string{
	"street_address":       "What is the street address?",
	"nearest_intersection": "What is the nearest intersection?",
	"description":          "Please describe the issue briefly.",
	"photo_url_optional":   "If you have a photo URL, share it (or say 'skip').",
	"zip_optional":         "What is the ZIP code? (or say 'skip')",
	"incident_time":        "When did this happen? (date & time)",
	"location":             "Where did this occur? (address, landmark or intersection)",
	"pole_number_optional": "If you see a pole number, share it (or say 'skip').",
	"nearest_address":      "What is the nearest address to the light?",
	"animal_type":          "What kind of animal is it?",
}

// addressFields are the slots whose answers go through geocoding.
var addressFields = map[string]bool{
	"street_address":  true,
	"nearest_address": true,
	"location":        true,
}

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// recomputePending rebuilds the session's pending field list from
// scratch: required fields in table order, then remaining service
// fields, each filtered against what is already filled. Recomputed
// every turn rather than patched so the order can never drift.
func recomputePending(session *model.Session) {
	req := requiredFields[session.ActiveIntent]
	svc := session.CityProfile.Services[session.ActiveIntent].Fields

	inReq := make(map[string]bool, len(req))
	pending := make([]string, 0, len(req)+len(svc))
	for _, f := range req {
		inReq[f] = true
		if _, filled := session.FilledFields[f]; !filled {
			pending = append(pending, f)
		}
	}
	for _, f := range svc {
		if inReq[f] {
			continue
		}
		if _, filled := session.FilledFields[f]; !filled {
			pending = append(pending, f)
		}
	}
	session.PendingFields = pending
}

// nextQuestion recomputes the pending list and returns the prompt for
// its head field, or "" when the form is complete (or no form active).
func nextQuestion(session *model.Session) string {
	if session.ActiveIntent == "" {
		return ""
	}
	recomputePending(session)
	if len(session.PendingFields) == 0 {
		return ""
	}
	return questionFor(session.PendingFields[0])
}

func questionFor(field string) string {
	if q, ok := fieldQuestions[field]; ok {
		return q
	}
	return fmt.Sprintf("Provide %s:", field)
}

// storeAnswer records raw as the value of the head pending field.
// Returns the field name and, when the input is rejected, a
// re-prompt. Skip is honored only for optional-marked fields; for a
// required field the word "skip" is just the answer.
func storeAnswer(session *model.Session, raw string) (field, reprompt string) {
	field = session.PendingFields[0]
	val := strings.TrimSpace(raw)

	if session.FilledFields == nil {
		session.FilledFields = make(map[string]*model.FieldValue)
	}

	if utils.Normalize(val) == skipKeyword && IsOptionalField(field) {
		session.FilledFields[field] = &model.FieldValue{Value: nil}
		return field, ""
	}

	if isZipField(field) && !zipPattern.MatchString(val) {
		return field, fmt.Sprintf("That doesn't look like a ZIP code. Please enter exactly 5 digits. %s", questionFor(field))
	}

	session.FilledFields[field] = &model.FieldValue{Value: &val}
	return field, ""
}

func isZipField(field string) bool {
	return strings.Contains(field, "zip")
}

func isAddressField(field string) bool {
	return addressFields[field]
}
