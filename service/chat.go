package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"city311/model"
	"city311/utils"
)

const maxTranscript = 200

// Reserved control keywords. Reset words are honored from any state;
// menu and cancel are only special mid-form (otherwise menu is just a
// greeting and cancel is unknown input).
var resetKeywords = map[string]bool{
	"reset":      true,
	"restart":    true,
	"start over": true,
}

const (
	cmdMenu   = "menu"
	cmdCancel = "cancel"
)

// DialogueService is the per-utterance state machine. It owns no
// session state itself: the caller loads a Session, hands it in, and
// saves whatever comes back.
type DialogueService struct {
	catalog   *Catalog
	verifier  *Verifier
	finalizer *Finalizer
	log       *zap.SugaredLogger
}

func NewDialogueService(catalog *Catalog, verifier *Verifier, finalizer *Finalizer, log *zap.SugaredLogger) *DialogueService {
	return &DialogueService{
		catalog:   catalog,
		verifier:  verifier,
		finalizer: finalizer,
		log:       log,
	}
}

// NewSession creates a fresh session on the default city profile.
func (s *DialogueService) NewSession() *model.Session {
	now := time.Now().Format(time.RFC3339)
	session := &model.Session{
		ID:          uuid.New().String(),
		State:       model.SessionIdle,
		CityProfile: s.catalog.Adapt("", ""),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.addMessage(session, model.RoleAssistant,
		"Hi! I'm your 311 assistant. Type 'menu' to see what I can do.")
	return session
}

// Process handles one utterance and returns the ordered replies for
// it. User input never produces an error: every reachable state has a
// defined reply.
func (s *DialogueService) Process(ctx context.Context, session *model.Session, utterance string) []string {
	s.addMessage(session, model.RoleUser, utterance)

	replies := s.route(ctx, session, utterance)

	for _, r := range replies {
		s.addMessage(session, model.RoleAssistant, r)
	}
	session.UpdatedAt = time.Now().Format(time.RFC3339)
	return replies
}

func (s *DialogueService) route(ctx context.Context, session *model.Session, utterance string) []string {
	t := utils.Normalize(utterance)

	// Rule 1: reset always wins, from any state.
	if resetKeywords[t] {
		session.ClearForm()
		return []string{"Okay — starting fresh. Type 'menu' to see what I can do."}
	}

	if session.Collecting() {
		return s.handleCollecting(ctx, session, utterance, t)
	}
	return s.handleIdle(session, utterance, t)
}

// handleCollecting applies the reserved-keyword interrupt policy:
// exactly "menu" shows the catalog and keeps the form, exactly
// "cancel" abandons it, and anything else is the answer to the
// pending question — even if it happens to contain an intent keyword.
func (s *DialogueService) handleCollecting(ctx context.Context, session *model.Session, utterance, t string) []string {
	switch t {
	case cmdMenu:
		return []string{s.menuReply(session), questionFor(session.PendingFields[0])}
	case cmdCancel:
		intent := session.ActiveIntent
		session.ClearForm()
		return []string{fmt.Sprintf("Canceled the %s request. Nothing was submitted.",
			strings.ReplaceAll(intent, "_", " "))}
	}

	field, reprompt := storeAnswer(session, utterance)
	if reprompt != "" {
		return []string{reprompt}
	}

	var replies []string
	if isAddressField(field) {
		replies = append(replies, s.verifier.VerifyField(ctx, session, field)...)
	}

	if q := nextQuestion(session); q != "" {
		return append(replies, q)
	}

	_, confirmation := s.finalizer.Finalize(ctx, session)
	session.ClearForm()
	return append(replies, confirmation)
}

func (s *DialogueService) handleIdle(session *model.Session, utterance, t string) []string {
	intent := Classify(utterance)

	switch intent {
	case model.IntentMenu:
		return []string{s.menuReply(session)}
	case model.IntentAdaptCity:
		city, state := parseAdaptPhrase(t)
		session.CityProfile = s.catalog.Adapt(city, state)
		return []string{fmt.Sprintf("Adapted to %s, %s. Type 'menu' to see services.",
			session.CityProfile.City, session.CityProfile.State)}
	case model.IntentUnknown:
		return []string{"I'm not sure I understood. Type 'menu' to see options, " +
			"or say 'Report a pothole' or 'Trash pickup day'."}
	}

	key := string(intent)
	svc, ok := session.CityProfile.Services[key]
	if !ok {
		s.log.Warnw("classified intent missing from profile", "intent", key, "city", session.CityProfile.City)
		return []string{"That service isn't available for " + session.CityProfile.City + ". Type 'menu' to see options."}
	}

	session.ActiveIntent = key
	session.FilledFields = make(map[string]*model.FieldValue)

	q := nextQuestion(session)
	if q == "" {
		// Nothing to collect: reply with the description and stay idle.
		session.ClearForm()
		reply := fmt.Sprintf("%s — %s\n\nMore info: %s\n\nType 'menu' for other options.",
			utils.TitleWords(strings.ReplaceAll(key, "_", " ")), svc.Description, svc.Link)
		return []string{reply}
	}

	session.State = model.SessionCollecting
	return []string{
		fmt.Sprintf("Okay, let's file a %s request.", strings.ReplaceAll(key, "_", " ")),
		q,
	}
}

func (s *DialogueService) menuReply(session *model.Session) string {
	var b strings.Builder
	b.WriteString("I can help with:\n")
	for _, key := range session.CityProfile.ServiceOrder {
		svc, ok := session.CityProfile.Services[key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s — %s\n", key, svc.Description)
	}
	b.WriteString("\nTry: 'Report a pothole', 'Trash pickup day', 'Noise complaint', " +
		"'Streetlight out', 'Stray dog', or 'General info'.")
	return b.String()
}

// parseAdaptPhrase pulls city and state out of the fixed
// "... name is X in the state Y" phrase. Best effort: anything that
// doesn't fit keeps the placeholders rather than failing the turn.
func parseAdaptPhrase(t string) (city, state string) {
	city, state = "Your City", "Your State"
	i := strings.Index(t, "name is")
	j := strings.Index(t, "in the state")
	if i < 0 || j < 0 || j <= i {
		return city, state
	}
	rawCity := strings.Trim(t[i+len("name is"):j], " .,:;'")
	rawState := strings.Trim(t[j+len("in the state"):], " .,:;'")
	if rawCity != "" {
		city = utils.TitleWords(rawCity)
	}
	if rawState != "" {
		state = utils.TitleWords(rawState)
	}
	return city, state
}

func (s *DialogueService) addMessage(session *model.Session, role, content string) {
	session.Transcript = append(session.Transcript, model.Message{Role: role, Content: content})
	if len(session.Transcript) > maxTranscript {
		session.Transcript = session.Transcript[len(session.Transcript)-maxTranscript:]
	}
}
