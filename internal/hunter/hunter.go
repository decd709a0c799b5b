package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const apiURL = "https://api.hunter.io"

// Client talks to the hunter.io domain-search API.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string

	keywords []string
}

type domainSearchResponse struct {
	Data struct {
		Emails []*Contact `json:"emails"`
	} `json:"data"`
}

// Contact is a raw domain-search record.
type Contact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Value     string `json:"value"`
}

func New(ctx context.Context, logger *zap.Logger, apiKey string) *Client {
	return &Client{
		ctx:    ctx,
		apiKey: apiKey,
		logger: logger,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		keywords: DefaultHRKeywords(),
	}
}

// DomainSearch returns all known contacts at the given company domain.
func (c *Client) DomainSearch(domain string) ([]*Contact, error) {
	q := url.Values{}
	q.Set("domain", domain)
	q.Set("api_key", c.apiKey)

	searchURL := fmt.Sprintf("%s/v2/domain-search?%s", c.APIURL, q.Encode())

	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("make request", zap.String("url", fmt.Sprintf("%s/v2/domain-search", c.APIURL)), zap.String("domain", domain))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %s: %s", resp.Status, msg)
	}

	var body domainSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding domain search response: %w", err)
	}

	return body.Data.Emails, nil
}

// FindHR resolves HR-relevant candidates for a company domain. A lookup
// failure yields an empty sequence: the listing is skipped for lack of
// recipients, never aborted.
func (c *Client) FindHR(_ context.Context, domain string) []*Candidate {
	contacts, err := c.DomainSearch(domain)
	if err != nil {
		c.logger.Warn("contact lookup failed",
			zap.String("domain", domain),
			zap.Error(err),
		)
		return nil
	}

	return FilterHR(contacts, c.keywords)
}
