package internal

import (
	"time"
)

// CreateTestLead creates a test lead with sample data
func CreateTestLead(sessionID string) Lead {
	return Lead{
		SessionID:    sessionID,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IP:           "203.0.113.7",
		Device:       "desktop",
		UTMSource:    "google",
		UTMMedium:    "cpc",
		UTMCampaign:  "spring",
		Referrer:     "https://www.google.com/",
		PagesVisited: "/, /pricing",
		FormData:     `{"email":"ada@example.com","name":"Ada"}`,
		ChatSummary:  "Asked about pricing",
	}
}

// CreateTestSnapshot creates a snapshot holding one test lead per session id
func CreateTestSnapshot(identity string, sessionIDs ...string) *Snapshot {
	leads := make([]Lead, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		leads = append(leads, CreateTestLead(id))
	}
	return &Snapshot{
		GeneratedAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		Identity:    identity,
		Leads:       leads,
	}
}
