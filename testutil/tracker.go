package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
)

const trackerSigningKey = "tracker-test-secret"

// TrackerServer is an in-process fake of the remote tracking API
type TrackerServer struct {
	*httptest.Server

	mu            sync.Mutex
	email         string
	password      string
	loginStatus   int
	leadsBody     string
	leadsStatus   int
	journeys      map[string]string
	journeyStatus int
	tokens        map[string]string
	requests      map[string]int
	headers       map[string]http.Header
}

// NewTrackerServer starts a fake tracker that accepts OperatorEmail/OperatorPassword
// and serves LeadsJSON. It is closed when the test finishes.
func NewTrackerServer(t *testing.T) *TrackerServer {
	t.Helper()
	ts := &TrackerServer{
		email:         OperatorEmail,
		password:      OperatorPassword,
		loginStatus:   http.StatusOK,
		leadsBody:     LeadsJSON,
		leadsStatus:   http.StatusOK,
		journeys:      map[string]string{"s1": JourneyJSON},
		journeyStatus: http.StatusOK,
		tokens:        make(map[string]string),
		requests:      make(map[string]int),
		headers:       make(map[string]http.Header),
	}

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", ts.handleLogin)
		api.Get("/leads", ts.handleLeads)
		api.Get("/journey/{sessionID}", ts.handleJourney)
	})

	ts.Server = httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

// BaseURL returns the API base to configure clients with
func (ts *TrackerServer) BaseURL() string {
	return ts.URL + "/api"
}

// SetLeads replaces the /leads body
func (ts *TrackerServer) SetLeads(body string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.leadsBody = body
}

// SetLeadsStatus forces /leads to answer with status
func (ts *TrackerServer) SetLeadsStatus(status int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.leadsStatus = status
}

// SetLoginStatus forces /auth/login to answer with status for every attempt
func (ts *TrackerServer) SetLoginStatus(status int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.loginStatus = status
}

// SetJourney sets the journey document for a session
func (ts *TrackerServer) SetJourney(sessionID, body string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.journeys[sessionID] = body
}

// SetJourneyStatus forces /journey/{id} to answer with status
func (ts *TrackerServer) SetJourneyStatus(status int) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.journeyStatus = status
}

// Requests returns how many requests hit a route ("login", "leads", "journey")
func (ts *TrackerServer) Requests(route string) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.requests[route]
}

// LastHeader returns a header from the most recent request to a route
func (ts *TrackerServer) LastHeader(route, name string) string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if h, ok := ts.headers[route]; ok {
		return h.Get(name)
	}
	return ""
}

// IdentityFor returns the email a token was issued to
func (ts *TrackerServer) IdentityFor(token string) string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.tokens[token]
}

func (ts *TrackerServer) record(route string, r *http.Request) {
	ts.requests[route]++
	ts.headers[route] = r.Header.Clone()
}

func (ts *TrackerServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.record("login", r)

	if ts.loginStatus != http.StatusOK {
		writeJSON(w, ts.loginStatus, map[string]string{"error": "login disabled"})
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}
	if body.Email != ts.email || body.Password != ts.password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "user " + body.Email + " rejected"})
		return
	}

	token, err := mintToken(body.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	ts.tokens[token] = body.Email
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (ts *TrackerServer) handleLeads(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.record("leads", r)

	if !ts.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	if ts.leadsStatus != http.StatusOK {
		writeJSON(w, ts.leadsStatus, map[string]string{"error": "unavailable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ts.leadsBody))
}

func (ts *TrackerServer) handleJourney(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.record("journey", r)

	if !ts.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	if ts.journeyStatus != http.StatusOK {
		writeJSON(w, ts.journeyStatus, map[string]string{"error": "unavailable"})
		return
	}

	sessionID, err := url.PathUnescape(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad session id"})
		return
	}
	body, ok := ts.journeys[sessionID]
	if !ok {
		body = `{"session_id":` + quote(sessionID) + `,"events":[]}`
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (ts *TrackerServer) authorized(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || token == "" {
		return false
	}
	_, known := ts.tokens[token]
	return known
}

func mintToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"iat": time.Now().UTC().Unix(),
		"exp": time.Now().UTC().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(trackerSigningKey))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
