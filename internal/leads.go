package internal

import (
	"context"
	"net/http"
)

// Outcome records how a retrieval ended. A failed retrieval still yields an
// empty result; Outcome is the only way to tell it apart from a truly empty one.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeUnauthorized Outcome = "unauthorized"
	OutcomeUnavailable  Outcome = "unavailable"
)

// LeadsResult is the result of one ListLeads call
type LeadsResult struct {
	Leads   []Lead
	Outcome Outcome
	Status  int // HTTP status, 0 if no response was received
	err     *RetrievalError
}

// Failed reports whether the retrieval failed and was rendered empty
func (r *LeadsResult) Failed() bool {
	return r.Outcome != OutcomeOK
}

// Err returns the masked retrieval failure, or nil
func (r *LeadsResult) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// LeadRetriever fetches leads and journeys with a caller-supplied token.
// It never stores the token.
type LeadRetriever struct {
	client     *APIClient
	normalizer *Normalizer
}

// NewLeadRetriever creates a retriever using the given client
func NewLeadRetriever(client *APIClient) *LeadRetriever {
	return &LeadRetriever{
		client:     client,
		normalizer: NewNormalizer(),
	}
}

// ListLeads fetches and normalizes the lead collection.
// Non-success responses yield an empty result with a failed Outcome and a nil error;
// a malformed success body is returned as a *ParseError.
func (r *LeadRetriever) ListLeads(ctx context.Context, token string) (*LeadsResult, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	resp, err := r.client.do(ctx, http.MethodGet, "/leads", token, nil)
	if err != nil {
		LogWarn("Leads request failed: %v", err)
		return failedLeads(0, err), nil
	}
	if !resp.ok() {
		LogWarn("Leads request returned status %d", resp.Status)
		return failedLeads(resp.Status, nil), nil
	}

	leads, err := r.normalizer.NormalizeLeads(resp.Body)
	if err != nil {
		return nil, err
	}

	LogDebug("Retrieved %d lead(s)", len(leads))
	return &LeadsResult{Leads: leads, Outcome: OutcomeOK, Status: resp.Status}, nil
}

func failedLeads(status int, cause error) *LeadsResult {
	kind := RetrievalUnavailable
	if status != 0 {
		kind = retrievalKind(status)
	}
	return &LeadsResult{
		Leads:   []Lead{},
		Outcome: outcomeFor(kind),
		Status:  status,
		err:     &RetrievalError{Op: "leads", Kind: kind, Status: status, Err: cause},
	}
}

func outcomeFor(kind RetrievalKind) Outcome {
	if kind == RetrievalUnauthorized {
		return OutcomeUnauthorized
	}
	return OutcomeUnavailable
}
