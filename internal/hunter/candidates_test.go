package hunter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestFilterHR(t *testing.T) {
	t.Parallel()

	contacts := []*Contact{
		{FirstName: "Jane", LastName: "Doe", Position: "Talent Acquisition Lead", Value: "jane@acme.com"},
		{FirstName: "Bob", LastName: "Smith", Position: "Software Engineer", Value: "bob@acme.com"},
		{FirstName: "", LastName: "", Position: "Recruiter", Value: "jobs@acme.com"},
		{FirstName: "Eve", LastName: "Jones", Position: "HEAD OF PEOPLE", Value: "eve@acme.com"},
		{FirstName: "No", LastName: "Email", Position: "Recruiter", Value: ""},
	}

	candidates := FilterHR(contacts, DefaultHRKeywords())

	if len(candidates) != 3 {
		t.Fatalf("expected 3 HR candidates, got %d", len(candidates))
	}

	// Lookup order must be preserved.
	if candidates[0].Email != "jane@acme.com" || candidates[1].Email != "jobs@acme.com" || candidates[2].Email != "eve@acme.com" {
		t.Fatalf("unexpected candidate order: %+v", candidates)
	}

	if got := candidates[0].FullName(); got != "Jane Doe" {
		t.Fatalf("expected full name Jane Doe, got %q", got)
	}

	if got := candidates[1].FullName(); got != "" {
		t.Fatalf("expected empty full name, got %q", got)
	}
}

func TestFindHRLookupFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(context.Background(), zap.NewNop(), "test-key")
	client.APIURL = server.URL

	candidates := client.FindHR(context.Background(), "acme.com")
	if len(candidates) != 0 {
		t.Fatalf("expected empty candidate list on lookup failure, got %d", len(candidates))
	}
}

func TestFindHRSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("domain"); got != "acme.com" {
			t.Errorf("expected domain query, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"emails": [
			{"first_name": "Jane", "last_name": "Doe", "position": "Recruiter", "value": "jane@acme.com"},
			{"first_name": "Tom", "last_name": "Ng", "position": "CTO", "value": "tom@acme.com"}
		]}}`))
	}))
	defer server.Close()

	client := New(context.Background(), zap.NewNop(), "test-key")
	client.APIURL = server.URL

	candidates := client.FindHR(context.Background(), "acme.com")
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Email != "jane@acme.com" {
		t.Fatalf("unexpected candidate: %+v", candidates[0])
	}
}
