package filtering

import (
	"context"

	"github.com/dvasyliev/cv-responder/internal/apify"
)

type excludedCompaniesFilter struct {
	companies []string
}

// NewExcludedCompanies creates a filter that removes listings by company
// names configured in the config.
func NewExcludedCompanies(companies []string) Filter {
	return &excludedCompaniesFilter{
		companies: companies,
	}
}

func (f *excludedCompaniesFilter) Name() string { return "excluded_companies" }

func (f *excludedCompaniesFilter) Disable(string) {}

func (f *excludedCompaniesFilter) IsEnabled() bool { return true }

func (f *excludedCompaniesFilter) Validate() error { return nil }

func (f *excludedCompaniesFilter) Apply(_ context.Context, l *apify.Listings) (*apify.Listings, Step, error) {
	initial := l.Len()
	if len(f.companies) == 0 {
		return l, Step{Initial: initial, Dropped: 0, Left: l.Len()}, nil
	}

	excluded := l.Exclude(apify.ListingCompanyField, f.companies)

	return l, Step{Initial: initial, Dropped: len(excluded), Left: l.Len()}, nil
}
