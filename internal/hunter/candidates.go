package hunter

import "strings"

// Candidate is a contact believed to hold an HR-relevant role.
type Candidate struct {
	FirstName string
	LastName  string
	Email     string
	// Position is the role string that matched an HR keyword.
	Position string
}

// FullName joins first and last name with a single space. Empty when both
// parts are absent.
func (c *Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// DefaultHRKeywords returns the role keywords that classify a contact as
// HR-relevant. Matching is a case-insensitive substring test.
func DefaultHRKeywords() []string {
	return []string{
		"hr",
		"human resource",
		"recruiting",
		"recruiter",
		"talent",
		"people",
		"people ops",
		"people operations",
		"staffing",
		"recruitment",
		"resource management",
		"talent acquisition",
	}
}

// FilterHR keeps contacts whose position matches one of the keywords,
// preserving lookup order.
func FilterHR(contacts []*Contact, keywords []string) []*Candidate {
	var candidates []*Candidate
	for _, contact := range contacts {
		if contact == nil || contact.Value == "" {
			continue
		}

		position := strings.ToLower(contact.Position)
		if !matchesAny(position, keywords) {
			continue
		}

		candidates = append(candidates, &Candidate{
			FirstName: contact.FirstName,
			LastName:  contact.LastName,
			Email:     contact.Value,
			Position:  contact.Position,
		})
	}

	return candidates
}

func matchesAny(position string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(position, keyword) {
			return true
		}
	}
	return false
}
