package internal

import (
	"context"
	"fmt"
)

// State is a dashboard state
type State int

const (
	StateLoggedOut State = iota
	StateLoggingIn
	StateLoggedIn
	StateLoadingLeads
	StateLeadsLoaded
	StateLoadingJourney
	StateJourneyShown
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "LoggedOut"
	case StateLoggingIn:
		return "LoggingIn"
	case StateLoggedIn:
		return "LoggedIn"
	case StateLoadingLeads:
		return "LoadingLeads"
	case StateLeadsLoaded:
		return "LeadsLoaded"
	case StateLoadingJourney:
		return "LoadingJourney"
	case StateJourneyShown:
		return "JourneyShown"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event is an operator action fed to Dispatch
type Event interface {
	eventName() string
}

// LoginSubmitted is sent when the operator submits the login form
type LoginSubmitted struct {
	Credentials Credentials
}

// LeadsRequested reloads the lead list
type LeadsRequested struct{}

// SessionSelected asks for one lead's journey
type SessionSelected struct {
	SessionID string
}

// LogoutClicked ends the session
type LogoutClicked struct{}

func (LoginSubmitted) eventName() string  { return "LoginSubmitted" }
func (LeadsRequested) eventName() string  { return "LeadsRequested" }
func (SessionSelected) eventName() string { return "SessionSelected" }
func (LogoutClicked) eventName() string   { return "LogoutClicked" }

// TransitionFunc is called after every state change
type TransitionFunc func(from, to State)

// Dashboard drives the login, lead listing and journey flow for one operator.
// It runs on a single goroutine; each event performs at most one network call
// at a time and returns once that call has finished.
type Dashboard struct {
	store     *SessionStore
	gateway   *AuthGateway
	retriever *LeadRetriever

	state    State
	leads    *LeadsResult
	journey  *JourneyResult
	selected string
	onChange []TransitionFunc
}

// NewDashboard creates a dashboard in the LoggedOut state
func NewDashboard(store *SessionStore, gateway *AuthGateway, retriever *LeadRetriever) *Dashboard {
	return &Dashboard{
		store:     store,
		gateway:   gateway,
		retriever: retriever,
		state:     StateLoggedOut,
	}
}

// NewDashboardFromConfig wires a dashboard against the configured tracker
func NewDashboardFromConfig(cfg *Config) *Dashboard {
	client := NewAPIClient(cfg.APIBase, nil)
	return NewDashboard(NewSessionStore(), NewAuthGateway(client), NewLeadRetriever(client))
}

// OnTransition registers a callback for state changes
func (d *Dashboard) OnTransition(fn TransitionFunc) {
	d.onChange = append(d.onChange, fn)
}

// State returns the current state
func (d *Dashboard) State() State {
	return d.state
}

// Session returns the current session; zero when logged out
func (d *Dashboard) Session() Session {
	return d.store.Current()
}

// IsAuthenticated reports whether the operator is logged in
func (d *Dashboard) IsAuthenticated() bool {
	return d.store.IsAuthenticated()
}

// Leads returns the most recently loaded leads
func (d *Dashboard) Leads() []Lead {
	if d.leads == nil {
		return nil
	}
	return d.leads.Leads
}

// LeadsResult returns the most recent lead retrieval, or nil
func (d *Dashboard) LeadsResult() *LeadsResult {
	return d.leads
}

// Journey returns the most recently shown journey, or nil
func (d *Dashboard) Journey() *JourneyResult {
	return d.journey
}

// SelectedSession returns the session id of the shown journey
func (d *Dashboard) SelectedSession() string {
	return d.selected
}

// Dispatch applies one event
func (d *Dashboard) Dispatch(ctx context.Context, ev Event) error {
	LogDebug("Dispatch %s in state %s", ev.eventName(), d.state)

	switch e := ev.(type) {
	case LoginSubmitted:
		return d.login(ctx, e.Credentials)
	case LeadsRequested:
		return d.loadLeads(ctx)
	case SessionSelected:
		return d.selectSession(ctx, e.SessionID)
	case LogoutClicked:
		d.logout()
		return nil
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
}

func (d *Dashboard) login(ctx context.Context, creds Credentials) error {
	if d.store.IsAuthenticated() {
		return fmt.Errorf("already logged in as %s; log out first", d.store.Identity())
	}

	d.transition(StateLoggingIn)
	session, err := d.gateway.Login(ctx, creds)
	if err != nil {
		d.transition(StateLoggedOut)
		return err
	}
	if err := d.store.Set(session); err != nil {
		d.transition(StateLoggedOut)
		return err
	}
	d.transition(StateLoggedIn)

	return d.loadLeads(ctx)
}

func (d *Dashboard) loadLeads(ctx context.Context) error {
	if !d.store.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	prev := d.state
	d.transition(StateLoadingLeads)
	result, err := d.retriever.ListLeads(ctx, d.store.Token())
	if err != nil {
		d.transition(settledState(prev))
		return err
	}

	d.leads = result
	d.journey = nil
	d.selected = ""
	d.transition(StateLeadsLoaded)
	return nil
}

func (d *Dashboard) selectSession(ctx context.Context, sessionID string) error {
	if !d.store.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if d.state != StateLeadsLoaded && d.state != StateJourneyShown {
		return fmt.Errorf("cannot select a session in state %s", d.state)
	}
	if sessionID == "" {
		return &ValidationError{Field: "session_id", Msg: "must not be empty"}
	}

	prev := d.state
	d.transition(StateLoadingJourney)
	result, err := d.retriever.GetJourney(ctx, sessionID, d.store.Token())
	if err != nil {
		d.transition(prev)
		return err
	}

	d.journey = result
	d.selected = sessionID
	d.transition(StateJourneyShown)
	return nil
}

func (d *Dashboard) logout() {
	if d.store.IsAuthenticated() {
		LogInfo("Logged out %s", d.store.Identity())
	}
	d.store.Clear()
	d.leads = nil
	d.journey = nil
	d.selected = ""
	d.transition(StateLoggedOut)
}

// settledState maps a state to where a failed leads reload should land
func settledState(s State) State {
	switch s {
	case StateLeadsLoaded, StateJourneyShown:
		return s
	default:
		return StateLoggedIn
	}
}

func (d *Dashboard) transition(to State) {
	from := d.state
	d.state = to
	if from == to {
		return
	}
	for _, fn := range d.onChange {
		fn(from, to)
	}
}
