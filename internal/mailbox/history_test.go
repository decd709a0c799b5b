package mailbox

import (
	"testing"

	"github.com/dvasyliev/cv-responder/internal/hunter"
)

// A candidate already present in history must never be selected again.
func TestHistoryEligibleDropsContacted(t *testing.T) {
	t.Parallel()

	history := History{}
	history.Add("Jane@Acme.com")
	history.Add("old@globex.com")

	candidates := []*hunter.Candidate{
		{FirstName: "Jane", LastName: "Doe", Email: "jane@acme.com", Position: "Recruiter"},
		{FirstName: "New", LastName: "Person", Email: "new@acme.com", Position: "Talent Partner"},
	}

	eligible := history.Eligible(candidates)

	if len(eligible) != 1 {
		t.Fatalf("expected 1 eligible candidate, got %d", len(eligible))
	}
	if eligible[0].Email != "new@acme.com" {
		t.Fatalf("expected the never-contacted candidate, got %q", eligible[0].Email)
	}
}

func TestHistoryEligibleEmptyHistory(t *testing.T) {
	t.Parallel()

	candidates := []*hunter.Candidate{
		{Email: "a@acme.com"},
		{Email: "b@acme.com"},
	}

	eligible := History{}.Eligible(candidates)
	if len(eligible) != 2 {
		t.Fatalf("expected all candidates eligible, got %d", len(eligible))
	}
	// Resolver order must survive dedup.
	if eligible[0].Email != "a@acme.com" {
		t.Fatalf("expected order preserved, got %q first", eligible[0].Email)
	}
}

func TestHistoryContainsNormalizes(t *testing.T) {
	t.Parallel()

	history := History{}
	history.Add("  Jane@Acme.COM ")

	if !history.Contains("jane@acme.com") {
		t.Fatalf("expected normalized lookup to match")
	}
	if history.Contains("other@acme.com") {
		t.Fatalf("did not expect match for unknown address")
	}
}

func TestAddHeaderRecipients(t *testing.T) {
	t.Parallel()

	history := History{}
	history.AddHeaderRecipients(`"Jane Doe" <jane@acme.com>, bob@globex.com`)
	history.AddHeaderRecipients("not an address <<<")
	history.AddHeaderRecipients("")

	if history.Len() != 2 {
		t.Fatalf("expected 2 recipients, got %d", history.Len())
	}
	if !history.Contains("jane@acme.com") || !history.Contains("bob@globex.com") {
		t.Fatalf("missing expected recipients: %v", history)
	}
}

func TestHeaderValue(t *testing.T) {
	t.Parallel()

	raw := []byte("From: me@example.com\r\nTo: Jane Doe <jane@acme.com>\r\nSubject: hello\r\n")
	if got := headerValue(raw, "To"); got != "Jane Doe <jane@acme.com>" {
		t.Fatalf("unexpected header value: %q", got)
	}
	if got := headerValue([]byte("garbage"), "To"); got != "" {
		t.Fatalf("expected empty value for malformed header, got %q", got)
	}
}
