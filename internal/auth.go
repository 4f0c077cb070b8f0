package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Credentials are supplied per login attempt and never stored
type Credentials struct {
	Identity string
	Secret   string
}

// Validate checks that both fields are present
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Identity) == "" {
		return &ValidationError{Field: "identity", Msg: "must not be empty"}
	}
	if c.Secret == "" {
		return &ValidationError{Field: "secret", Msg: "must not be empty"}
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// AuthGateway exchanges credentials for a bearer token. It holds no session state;
// callers commit the returned Session to a SessionStore.
type AuthGateway struct {
	client *APIClient
}

// NewAuthGateway creates a gateway using the given client
func NewAuthGateway(client *APIClient) *AuthGateway {
	return &AuthGateway{client: client}
}

// Login performs a single login attempt
func (g *AuthGateway) Login(ctx context.Context, creds Credentials) (Session, error) {
	if err := creds.Validate(); err != nil {
		return Session{}, err
	}

	resp, err := g.client.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{
		Email:    creds.Identity,
		Password: creds.Secret,
	})
	if err != nil {
		return Session{}, &AuthError{Reason: "unavailable", Err: err}
	}

	if !resp.ok() {
		LogDebug("Login rejected with status %d", resp.Status)
		return Session{}, &AuthError{Reason: "invalid_credentials", Err: ErrInvalidCredentials}
	}

	var body loginResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return Session{}, &ParseError{Source: "login", Key: "body", Err: err}
	}
	if body.Token == "" {
		return Session{}, &ParseError{Source: "login", Key: "token", Err: errors.New("missing token in response")}
	}

	LogInfo("Logged in as %s", creds.Identity)
	return Session{Token: body.Token, Identity: creds.Identity}, nil
}

// IsInvalidCredentials reports whether err is a rejected login
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// LoginFailureMessage turns a login error into an operator-facing message
// without leaking remote details.
func LoginFailureMessage(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("Please enter a %s.", fieldLabel(verr.Field))
	case IsInvalidCredentials(err):
		return "Invalid username or password."
	default:
		return "Login failed. Please try again."
	}
}

func fieldLabel(field string) string {
	switch field {
	case "identity":
		return "username"
	case "secret":
		return "password"
	default:
		return field
	}
}
