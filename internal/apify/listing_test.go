package apify

import "testing"

func sample() *Listings {
	return &Listings{
		Items: []*Listing{
			{ID: "1", Title: "Go Developer", CompanyName: "Acme", CompanyWebsite: "acme.com"},
			{ID: "2", Title: "SRE", CompanyName: "Globex", CompanyWebsite: "globex.com"},
			{ID: "3", Title: "Backend Engineer", CompanyName: "Initech", CompanyWebsite: "initech.com"},
		},
	}
}

func TestExcludePreservesOrder(t *testing.T) {
	t.Parallel()

	listings := sample()
	excluded := listings.Exclude(ListingCompanyField, []string{"globex"})

	if len(excluded) != 1 || excluded[0] != "2" {
		t.Fatalf("expected listing 2 excluded, got %v", excluded)
	}

	if listings.Len() != 2 {
		t.Fatalf("expected 2 listings left, got %d", listings.Len())
	}

	if listings.Items[0].ID != "1" || listings.Items[1].ID != "3" {
		t.Fatalf("expected source order preserved, got %s then %s", listings.Items[0].ID, listings.Items[1].ID)
	}
}

func TestExcludeNoTargets(t *testing.T) {
	t.Parallel()

	listings := sample()
	if excluded := listings.Exclude(ListingIDField, nil); excluded != nil {
		t.Fatalf("expected no exclusions, got %v", excluded)
	}
	if listings.Len() != 3 {
		t.Fatalf("expected all listings kept, got %d", listings.Len())
	}
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	listings := sample()
	if got := listings.FindByID("3"); got == nil || got.CompanyName != "Initech" {
		t.Fatalf("unexpected listing: %+v", got)
	}
	if got := listings.FindByID("missing"); got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}
}

func TestReportByCompany(t *testing.T) {
	t.Parallel()

	listings := sample()
	report := listings.ReportByCompany()

	entries, ok := report["Acme"]
	if !ok {
		t.Fatalf("expected Acme key in report")
	}
	if len(entries) != 1 || entries[0]["title"] != "Go Developer" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}
