package apify

import (
	"encoding/json"
	"os"
	"strings"
)

const (
	ListingIDField      = "ID"
	ListingCompanyField = "CompanyName"
)

type Listings struct {
	Items []*Listing
}

// Listing is a single scraped job posting. Immutable once fetched.
type Listing struct {
	ID              string `json:"id,omitempty"`
	Title           string `json:"title,omitempty"`
	CompanyName     string `json:"companyName,omitempty"`
	CompanyWebsite  string `json:"companyWebsite,omitempty"`
	DescriptionText string `json:"descriptionText,omitempty"`
	Location        string `json:"location,omitempty"`
	PostedAt        string `json:"postedAt,omitempty"`
	Link            string `json:"link,omitempty"`
	// FromStructuredData marks listings scraped from embedded JSON-LD
	// rather than the rendered page.
	FromStructuredData bool `json:"fromStructuredData,omitempty"`
}

func (l *Listings) Len() int {
	return len(l.Items)
}

func (l *Listings) FindByID(id string) *Listing {
	for _, listing := range l.Items {
		if listing.ID == id {
			return listing
		}
	}
	return nil
}

func (li *Listing) GetStringField(name string) string {
	switch name {
	case ListingIDField:
		return li.ID
	case ListingCompanyField:
		return li.CompanyName
	default:
		return ""
	}
}

// Exclude removes listings whose field matches one of the targets and returns
// the removed ids. Order of the remaining listings is preserved: the pipeline
// processes listings strictly in source order.
func (l *Listings) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		drop[strings.ToLower(target)] = struct{}{}
	}

	var excluded []string
	kept := make([]*Listing, 0, len(l.Items))
	for _, listing := range l.Items {
		if _, ok := drop[strings.ToLower(listing.GetStringField(name))]; ok {
			excluded = append(excluded, listing.ID)
			continue
		}
		kept = append(kept, listing)
	}

	l.Items = kept
	return excluded
}

// ReportByCompany groups listings by company for interactive reporting.
func (l *Listings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, listing := range l.Items {
		report[listing.CompanyName] = append(report[listing.CompanyName], map[string]string{
			"title":    listing.Title,
			"location": listing.Location,
			"link":     listing.Link,
			"website":  listing.CompanyWebsite,
		})
	}
	return report
}

func (l *Listings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "listings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return "", err
	}
	return file.Name(), nil
}
