package internal

import (
	"encoding/json"
	"time"
)

// RawLead is one lead object as returned by GET /leads
type RawLead struct {
	SessionID    string          `json:"session_id"`
	CreatedAt    json.RawMessage `json:"created_at,omitempty"`
	IP           string          `json:"ip,omitempty"`
	Device       string          `json:"device,omitempty"`
	UTMSource    string          `json:"utm_source,omitempty"`
	UTMMedium    string          `json:"utm_medium,omitempty"`
	UTMCampaign  string          `json:"utm_campaign,omitempty"`
	Referrer     string          `json:"referrer,omitempty"`
	PagesVisited json.RawMessage `json:"pages_visited,omitempty"`
	FormData     json.RawMessage `json:"form_data,omitempty"`
	ChatSummary  json.RawMessage `json:"chat_summary,omitempty"`
}

// Lead is a normalized, display-ready lead row
type Lead struct {
	SessionID    string    `json:"session_id" yaml:"session_id"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	IP           string    `json:"ip" yaml:"ip"`
	Device       string    `json:"device" yaml:"device"`
	UTMSource    string    `json:"utm_source" yaml:"utm_source"`
	UTMMedium    string    `json:"utm_medium" yaml:"utm_medium"`
	UTMCampaign  string    `json:"utm_campaign" yaml:"utm_campaign"`
	Referrer     string    `json:"referrer" yaml:"referrer"`
	PagesVisited string    `json:"pages_visited" yaml:"pages_visited"`
	FormData     string    `json:"form_data" yaml:"form_data"`
	ChatSummary  string    `json:"chat_summary" yaml:"chat_summary"`
}

// LeadColumns is the display and export column order
var LeadColumns = []string{
	"session_id", "created_at", "ip", "device", "utm_source",
	"utm_medium", "utm_campaign", "referrer", "pages_visited",
	"form_data", "chat_summary",
}

// Values returns the lead's fields as strings in LeadColumns order
func (l Lead) Values() []string {
	return []string{
		l.SessionID,
		l.CreatedAt.UTC().Format(time.RFC3339Nano),
		l.IP,
		l.Device,
		l.UTMSource,
		l.UTMMedium,
		l.UTMCampaign,
		l.Referrer,
		l.PagesVisited,
		l.FormData,
		l.ChatSummary,
	}
}

// Journey is an opaque journey document for one session
type Journey struct {
	SessionID string          `json:"session_id"`
	Document  json.RawMessage `json:"document"`
}

// Snapshot is a point-in-time view of the retrieved leads, used by exporters
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	Identity    string    `json:"identity,omitempty" yaml:"identity,omitempty"`
	Leads       []Lead    `json:"leads" yaml:"leads"`
}

// NewSnapshot builds a snapshot stamped with the current time
func NewSnapshot(identity string, leads []Lead) *Snapshot {
	return &Snapshot{
		GeneratedAt: time.Now().UTC(),
		Identity:    identity,
		Leads:       leads,
	}
}
