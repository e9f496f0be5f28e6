package model

import "time"

type IntentTag string

const (
	IntentPothole     IntentTag = "pothole"
	IntentTrash       IntentTag = "trash_schedule"
	IntentNoise       IntentTag = "noise_complaint"
	IntentStreetlight IntentTag = "streetlight"
	IntentStrayAnimal IntentTag = "stray_animal"
	IntentGeneralInfo IntentTag = "general_info"
	IntentMenu        IntentTag = "menu"
	IntentAdaptCity   IntentTag = "adapt_city"
	IntentUnknown     IntentTag = "unknown"
)

type SessionState string

const (
	SessionIdle       SessionState = "idle"
	SessionCollecting SessionState = "collecting"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ServiceDescriptor is one reportable issue type for one city.
// Field names ending in "_optional" may be skipped by the citizen.
type ServiceDescriptor struct {
	Description string   `json:"description" yaml:"description"`
	Fields      []string `json:"fields" yaml:"fields"`
	Link        string   `json:"link" yaml:"link"`
	SLADays     int      `json:"sla_days,omitempty" yaml:"sla_days,omitempty"`
}

// CityProfile is the catalog resolved for one jurisdiction. Each
// session owns its own copy; mutating it never touches the template.
type CityProfile struct {
	City     string                       `json:"city"`
	State    string                       `json:"state"`
	Services map[string]ServiceDescriptor `json:"services"`
	// ServiceOrder fixes menu and field enumeration order; map
	// iteration would reshuffle replies between turns.
	ServiceOrder []string `json:"service_order"`
}

// FieldValue is one filled slot: free text, an explicit skip (Value
// nil), and optionally the geocoded record attached on verification.
type FieldValue struct {
	Value   *string        `json:"value"`
	Address *AddressRecord `json:"address,omitempty"`
}

// AddressRecord is the provider-independent geocoding result.
type AddressRecord struct {
	FormattedAddress string  `json:"formatted_address"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Zip              string  `json:"zip"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	Provider         string  `json:"provider"`
}

// Session is one citizen conversation. It is caller-owned: the API
// layer loads it, hands it to the dialogue service for one utterance,
// and saves it back. Nothing else holds a reference.
type Session struct {
	ID            string                 `json:"id"`
	State         SessionState           `json:"state"`
	CityProfile   CityProfile            `json:"city_profile"`
	Transcript    []Message              `json:"transcript"`
	ActiveIntent  string                 `json:"active_intent,omitempty"`
	PendingFields []string               `json:"pending_fields,omitempty"`
	FilledFields  map[string]*FieldValue `json:"filled_fields,omitempty"`
	TicketLog     []Ticket               `json:"ticket_log,omitempty"`
	CreatedAt     string                 `json:"created_at"`
	UpdatedAt     string                 `json:"updated_at"`
}

func (s *Session) Collecting() bool {
	return s.ActiveIntent != "" && len(s.PendingFields) > 0
}

// ClearForm drops all in-progress slot-filling state.
func (s *Session) ClearForm() {
	s.State = SessionIdle
	s.ActiveIntent = ""
	s.PendingFields = nil
	s.FilledFields = nil
}

// Ticket is the finalized record of a completed service request.
// Immutable once created; persisted by ticket id with upsert
// semantics, so re-saving the same id overwrites.
type Ticket struct {
	ID        string    `json:"ticket_id" gorm:"primaryKey;column:ticket_id"`
	Service   string    `json:"service" gorm:"column:service"`
	City      string    `json:"city" gorm:"column:city"`
	State     string    `json:"state" gorm:"column:state"`
	Payload   string    `json:"payload" gorm:"column:payload"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Ticket) TableName() string { return "tickets" }

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type ChatResponse struct {
	SessionID     string       `json:"session_id"`
	Replies       []string     `json:"replies"`
	State         SessionState `json:"session_state"`
	City          string       `json:"city"`
	AwaitingField string       `json:"awaiting_field,omitempty"`
}
