package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

var emptyDocument = json.RawMessage(`{}`)

// JourneyResult is the result of one GetJourney call
type JourneyResult struct {
	Journey Journey
	Outcome Outcome
	Status  int
	err     *RetrievalError
}

// Failed reports whether the retrieval failed and was rendered empty
func (r *JourneyResult) Failed() bool {
	return r.Outcome != OutcomeOK
}

// Err returns the masked retrieval failure, or nil
func (r *JourneyResult) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// GetJourney fetches the journey document for one session. The document is passed
// through uninterpreted; failures yield an empty document.
func (r *LeadRetriever) GetJourney(ctx context.Context, sessionID, token string) (*JourneyResult, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	resp, err := r.client.do(ctx, http.MethodGet, "/journey/"+url.PathEscape(sessionID), token, nil)
	if err != nil {
		LogWarn("Journey request for %s failed: %v", sessionID, err)
		return failedJourney(sessionID, 0, err), nil
	}
	if !resp.ok() {
		LogWarn("Journey request for %s returned status %d", sessionID, resp.Status)
		return failedJourney(sessionID, resp.Status, nil), nil
	}

	doc := bytes.TrimSpace(resp.Body)
	if !json.Valid(doc) {
		return nil, &ParseError{Source: "journey", Key: sessionID, Err: errors.New("response is not valid JSON")}
	}

	return &JourneyResult{
		Journey: Journey{SessionID: sessionID, Document: json.RawMessage(doc)},
		Outcome: OutcomeOK,
		Status:  resp.Status,
	}, nil
}

func failedJourney(sessionID string, status int, cause error) *JourneyResult {
	kind := RetrievalUnavailable
	if status != 0 {
		kind = retrievalKind(status)
	}
	return &JourneyResult{
		Journey: Journey{SessionID: sessionID, Document: emptyDocument},
		Outcome: outcomeFor(kind),
		Status:  status,
		err:     &RetrievalError{Op: "journey", Kind: kind, Status: status, Err: cause},
	}
}

// Indented returns the journey document pretty-printed
func (j Journey) Indented() string {
	if len(j.Document) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, j.Document, "", "  "); err != nil {
		return string(j.Document)
	}
	return buf.String()
}

// Decode unmarshals the document into a generic value, e.g. for YAML rendering
func (j Journey) Decode() (interface{}, error) {
	var v interface{}
	if len(j.Document) == 0 {
		return map[string]interface{}{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(j.Document))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
