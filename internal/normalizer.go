package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing created_at.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Normalizer converts raw tracker payloads into display-ready leads
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeLeads decodes a /leads body and normalizes every record.
// Any invalid record fails the whole batch.
func (n *Normalizer) NormalizeLeads(body []byte) ([]Lead, error) {
	var raws []RawLead
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, &ParseError{Source: "leads", Key: "body", Err: err}
	}

	leads := make([]Lead, 0, len(raws))
	seen := make(map[string]int, len(raws))
	for i, raw := range raws {
		lead, err := n.NormalizeLead(raw)
		if err != nil {
			return nil, &ParseError{Source: "leads", Key: recordKey(i, raw.SessionID), Err: err}
		}
		if first, dup := seen[lead.SessionID]; dup {
			return nil, &ParseError{
				Source: "leads",
				Key:    recordKey(i, raw.SessionID),
				Err:    fmt.Errorf("duplicate session_id (first seen at record %d)", first),
			}
		}
		seen[lead.SessionID] = i
		leads = append(leads, lead)
	}

	return leads, nil
}

// NormalizeLead validates and normalizes a single raw record
func (n *Normalizer) NormalizeLead(raw RawLead) (Lead, error) {
	if strings.TrimSpace(raw.SessionID) == "" {
		return Lead{}, errors.New("missing session_id")
	}

	createdAt, err := parseCreatedAt(raw.CreatedAt)
	if err != nil {
		return Lead{}, fmt.Errorf("created_at: %w", err)
	}

	pages, err := joinPages(raw.PagesVisited)
	if err != nil {
		return Lead{}, fmt.Errorf("pages_visited: %w", err)
	}

	formData, err := stringifyValue(raw.FormData)
	if err != nil {
		return Lead{}, fmt.Errorf("form_data: %w", err)
	}

	chatSummary, err := stringifyValue(raw.ChatSummary)
	if err != nil {
		return Lead{}, fmt.Errorf("chat_summary: %w", err)
	}

	return Lead{
		SessionID:    raw.SessionID,
		CreatedAt:    createdAt,
		IP:           raw.IP,
		Device:       raw.Device,
		UTMSource:    raw.UTMSource,
		UTMMedium:    raw.UTMMedium,
		UTMCampaign:  raw.UTMCampaign,
		Referrer:     raw.Referrer,
		PagesVisited: pages,
		FormData:     formData,
		ChatSummary:  chatSummary,
	}, nil
}

func recordKey(index int, sessionID string) string {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Sprintf("record %d", index)
	}
	return fmt.Sprintf("record %d (%s)", index, sessionID)
}

// parseCreatedAt parses the raw created_at JSON value
func parseCreatedAt(raw json.RawMessage) (time.Time, error) {
	if isNull(raw) {
		return time.Time{}, errors.New("missing value")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("expected a string, got %s", string(raw))
	}

	return ParseTimestamp(s)
}

// ParseTimestamp parses a timestamp in any of the accepted layouts
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// joinPages renders pages_visited as "a, b, c", preserving order
func joinPages(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}

	var items []*string
	if err := json.Unmarshal(raw, &items); err != nil {
		return "", fmt.Errorf("expected a list of strings, got %s", string(raw))
	}

	pages := make([]string, 0, len(items))
	for i, page := range items {
		if page == nil {
			return "", fmt.Errorf("page %d is null", i)
		}
		pages = append(pages, *page)
	}
	return strings.Join(pages, ", "), nil
}

// stringifyValue renders an arbitrary JSON value for display. Strings pass through;
// other non-empty values become compact JSON with sorted keys and exact numbers.
func stringifyValue(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", err
	}

	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case map[string]interface{}:
		if len(val) == 0 {
			return "", nil
		}
	case []interface{}:
		if len(val) == 0 {
			return "", nil
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
