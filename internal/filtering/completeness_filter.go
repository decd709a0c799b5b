package filtering

import (
	"context"
	"strings"

	"github.com/dvasyliev/cv-responder/internal/apify"
)

type completenessFilter struct{}

// NewCompleteness creates a filter that removes listings missing the fields
// the pipeline cannot work without: a description to judge against and a
// company website to resolve contacts from.
func NewCompleteness() Filter {
	return &completenessFilter{}
}

func (f *completenessFilter) Name() string { return "completeness" }

func (f *completenessFilter) Disable(string) {}

func (f *completenessFilter) IsEnabled() bool { return true }

func (f *completenessFilter) Validate() error { return nil }

func (f *completenessFilter) Apply(_ context.Context, l *apify.Listings) (*apify.Listings, Step, error) {
	initial := l.Len()

	kept := make([]*apify.Listing, 0, initial)
	for _, listing := range l.Items {
		if strings.TrimSpace(listing.DescriptionText) == "" {
			continue
		}
		if strings.TrimSpace(listing.CompanyWebsite) == "" {
			continue
		}
		kept = append(kept, listing)
	}
	l.Items = kept

	return l, Step{Initial: initial, Dropped: initial - l.Len(), Left: l.Len()}, nil
}
