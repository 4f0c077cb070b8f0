package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iksnae/lead-dashboard/testutil"
)

func TestNewAPIClient_DefaultTimeout(t *testing.T) {
	client := NewAPIClient("http://localhost/api", nil)
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
	if client.BaseURL() != "http://localhost/api" {
		t.Errorf("BaseURL() = %q", client.BaseURL())
	}
}

func TestAPIClient_Ping(t *testing.T) {
	ts := testutil.NewTrackerServer(t)
	client := NewAPIClient(ts.BaseURL(), nil)

	status, err := client.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if status != http.StatusUnauthorized {
		t.Errorf("Ping() status = %d, want 401 for an anonymous request", status)
	}
	if got := ts.LastHeader("leads", "Authorization"); got != "" {
		t.Errorf("Ping() sent Authorization %q", got)
	}
}

func TestAPIClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewAPIClient(srv.URL, &http.Client{Timeout: 50 * time.Millisecond})
	retriever := NewLeadRetriever(client)

	result, err := retriever.ListLeads(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListLeads() error = %v, want nil", err)
	}
	if result.Outcome != OutcomeUnavailable || result.Status != 0 {
		t.Errorf("ListLeads() = %+v, want unavailable with no status", result)
	}
}

func TestRetrievalKind(t *testing.T) {
	tests := []struct {
		status int
		want   RetrievalKind
	}{
		{http.StatusUnauthorized, RetrievalUnauthorized},
		{http.StatusForbidden, RetrievalUnauthorized},
		{http.StatusNotFound, RetrievalUnavailable},
		{http.StatusInternalServerError, RetrievalUnavailable},
		{http.StatusTooManyRequests, RetrievalUnavailable},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			if got := retrievalKind(tt.status); got != tt.want {
				t.Errorf("retrievalKind(%d) = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}
