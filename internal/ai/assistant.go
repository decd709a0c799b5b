package ai

import (
	"context"

	"github.com/dvasyliev/cv-responder/internal/apify"
)

// Verdict is the parsed outcome of a relevance judgment. Anything the model
// returns outside the expected shape is Unparseable, which callers must treat
// as a rejection: classification failures never block the run.
type Verdict int

const (
	VerdictNotFit Verdict = iota
	VerdictFit
	VerdictUnparseable
)

func (v Verdict) Fit() bool {
	return v == VerdictFit
}

func (v Verdict) String() string {
	switch v {
	case VerdictFit:
		return "fit"
	case VerdictNotFit:
		return "not_fit"
	default:
		return "unparseable"
	}
}

// Screener decides whether the candidate is a fit for a listing.
type Screener interface {
	Evaluate(ctx context.Context, resume string, listing *apify.Listing) (Verdict, error)
}

// Tailor rebuilds the base resume into a listing-specific markdown variant.
// An empty result means there is nothing worth sending.
type Tailor interface {
	Rebuild(ctx context.Context, resume string, listing *apify.Listing) (string, error)
}
