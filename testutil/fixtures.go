package testutil

const (
	// OperatorEmail and OperatorPassword are accepted by a default TrackerServer
	OperatorEmail    = "ops@example.com"
	OperatorPassword = "correct-pw"
)

// SingleLeadJSON is one lead with a null form_data and a plain chat summary
const SingleLeadJSON = `[
  {
    "session_id": "s1",
    "created_at": "2024-01-01T00:00:00Z",
    "pages_visited": ["/x", "/y"],
    "form_data": null,
    "chat_summary": "hi"
  }
]`

// LeadsJSON is a small lead collection covering the common field shapes
const LeadsJSON = `[
  {
    "session_id": "s1",
    "created_at": "2024-01-01T00:00:00Z",
    "ip": "203.0.113.7",
    "device": "desktop",
    "utm_source": "google",
    "utm_medium": "cpc",
    "utm_campaign": "spring",
    "referrer": "https://www.google.com/",
    "pages_visited": ["/", "/pricing", "/contact"],
    "form_data": {"name": "Ada", "email": "ada@example.com"},
    "chat_summary": "Asked about pricing"
  },
  {
    "session_id": "s2",
    "created_at": "2024-01-02 08:30:00",
    "ip": "198.51.100.4",
    "device": "mobile",
    "utm_source": null,
    "utm_medium": null,
    "utm_campaign": null,
    "referrer": "",
    "pages_visited": [],
    "form_data": {},
    "chat_summary": null
  },
  {
    "session_id": "s/3",
    "created_at": "2024-01-03T12:00:00.123456+02:00",
    "device": "tablet",
    "pages_visited": null
  }
]`

// JourneyJSON is a journey document for session s1
const JourneyJSON = `{"session_id":"s1","events":[{"type":"page_view","path":"/","at":"2024-01-01T00:00:00Z"},{"type":"chat","message":"hi"}]}`
