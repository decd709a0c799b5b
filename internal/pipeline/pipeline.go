package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvasyliev/cv-responder/internal/ai"
	"github.com/dvasyliev/cv-responder/internal/apify"
	"github.com/dvasyliev/cv-responder/internal/delivery"
	"github.com/dvasyliev/cv-responder/internal/hunter"
	"github.com/dvasyliev/cv-responder/internal/mailbox"
	"go.uber.org/zap"
)

// ContactResolver finds HR-relevant candidates for a company domain. Lookup
// failures resolve to an empty sequence.
type ContactResolver interface {
	FindHR(ctx context.Context, domain string) []*hunter.Candidate
}

// HistorySource derives the set of already-contacted recipients.
type HistorySource interface {
	Recipients(ctx context.Context) (mailbox.History, error)
}

// Deliverer sends one application to one recipient.
type Deliverer interface {
	Deliver(ctx context.Context, job *delivery.Job) error
}

// Config carries the per-run inputs shared across all listings.
type Config struct {
	// Resume is the base resume text, read-only for the whole run.
	Resume string
	// SkipDedup disables the sent-history check.
	SkipDedup bool
}

// Deps aggregates the collaborating components. Every dependency is an
// interface so tests can substitute fakes.
type Deps struct {
	Logger   *zap.Logger
	Screener ai.Screener
	Tailor   ai.Tailor
	Contacts ContactResolver
	History  HistorySource
	Delivery Deliverer
}

// Summary is the per-run outcome breakdown.
type Summary struct {
	Processed    int
	Rejected     int
	NoRecipients int
	AllContacted int
	NotTailored  int
	Sent         int
	Failed       int
}

// Pipeline runs the application sequence for each listing: screen, resolve
// recipients, dedupe, tailor, deliver to the first eligible recipient only.
type Pipeline struct {
	cfg  *Config
	deps *Deps
}

func New(cfg *Config, deps *Deps) *Pipeline {
	return &Pipeline{
		cfg:  cfg,
		deps: deps,
	}
}

// Run processes listings strictly in source order, one at a time. No
// listing's outcome affects another's; only a sent-history failure aborts the
// run, since delivering without dedup risks duplicate outreach.
func (p *Pipeline) Run(ctx context.Context, listings *apify.Listings) (*Summary, error) {
	summary := &Summary{}
	log := p.deps.Logger

	for _, listing := range listings.Items {
		summary.Processed++

		fields := []zap.Field{
			zap.String("listing_id", listing.ID),
			zap.String("company", listing.CompanyName),
			zap.String("title", listing.Title),
		}

		verdict, err := p.deps.Screener.Evaluate(ctx, p.cfg.Resume, listing)
		if err != nil {
			log.Warn("relevance judgment failed, skipping listing", append(fields, zap.Error(err))...)
			summary.Rejected++
			continue
		}

		if !verdict.Fit() {
			log.Info("listing rejected", append(fields, zap.String("verdict", verdict.String()))...)
			summary.Rejected++
			continue
		}

		candidates := p.deps.Contacts.FindHR(ctx, listing.CompanyWebsite)
		if len(candidates) == 0 {
			log.Info("no HR contacts found, skipping listing", fields...)
			summary.NoRecipients++
			continue
		}

		recipient, err := p.firstEligible(ctx, candidates)
		if err != nil {
			return summary, fmt.Errorf("resolving recipient history: %w", err)
		}

		if recipient == nil {
			log.Info("all HR contacts already contacted, skipping listing", fields...)
			summary.AllContacted++
			continue
		}

		tailored, err := p.deps.Tailor.Rebuild(ctx, p.cfg.Resume, listing)
		if err != nil {
			log.Warn("tailoring failed, skipping listing", append(fields, zap.Error(err))...)
			summary.NotTailored++
			continue
		}
		if strings.TrimSpace(tailored) == "" {
			log.Warn("tailoring produced nothing to send, skipping listing", fields...)
			summary.NotTailored++
			continue
		}

		job := &delivery.Job{
			Title:     listing.Title,
			Company:   listing.CompanyName,
			Markdown:  tailored,
			Recipient: recipient,
		}

		if err := p.deps.Delivery.Deliver(ctx, job); err != nil {
			log.Warn("delivery failed", append(fields, zap.String("recipient", recipient.Email), zap.Error(err))...)
			summary.Failed++
			continue
		}

		summary.Sent++
	}

	return summary, nil
}

// firstEligible returns the first candidate, in resolver order, that has not
// been contacted before. The sent history is loaded fresh for each check.
func (p *Pipeline) firstEligible(ctx context.Context, candidates []*hunter.Candidate) (*hunter.Candidate, error) {
	if p.cfg.SkipDedup {
		return candidates[0], nil
	}

	history, err := p.deps.History.Recipients(ctx)
	if err != nil {
		return nil, err
	}

	eligible := history.Eligible(candidates)
	if len(eligible) == 0 {
		return nil, nil
	}

	return eligible[0], nil
}
