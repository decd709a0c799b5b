package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	apiURL = "https://api.apify.com"

	// defaultActor is the LinkedIn jobs scraper actor used by default.
	defaultActor = "hKByXkMQaC5Qt9UMN"

	defaultMaxItems = 100
)

// defaultSearchURLs is the remote-jobs LinkedIn search scraped when no urls
// are configured.
var defaultSearchURLs = []string{
	"https://www.linkedin.com/jobs/search/?currentJobId=4305981446&f_E=2%2C3%2C4&f_T=9%2C25201%2C39%2C25170" +
		"%2C25194%2C3172%2C24%2C10738%2C25169%2C30006%2C191%2C17265&f_TPR=r604800&f_WT=2&keywords=remote&origin" +
		"=JOB_SEARCH_PAGE_JOB_FILTER&sortBy=R",
}

// SearchParams describes a single listing fetch request.
type SearchParams struct {
	// Actor is the Apify actor id to run. Defaults to the LinkedIn jobs scraper.
	Actor string `mapstructure:"actor"`
	// URLs are job search result pages the actor scrapes.
	URLs []string `mapstructure:"urls"`
	// MaxItems caps the number of returned listings.
	MaxItems int `mapstructure:"max-items"`
}

// Client talks to the Apify actor API.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		logger: logger,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// FetchListings runs the configured actor synchronously and returns its
// dataset items as listings. A non-success response is an error: the caller
// cannot proceed without a listing feed.
func (c *Client) FetchListings(params *SearchParams) (*Listings, error) {
	actor := params.Actor
	if actor == "" {
		actor = defaultActor
	}

	maxItems := params.MaxItems
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}

	urls := params.URLs
	if len(urls) == 0 {
		urls = defaultSearchURLs
	}

	payload := map[string]any{
		"urls":  urls,
		"count": maxItems,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items", c.APIURL, actor)

	req, err := http.NewRequestWithContext(c.ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))

	c.logger.Debug("make request", zap.String("url", url), zap.Int("max_items", maxItems))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %s: %s", resp.Status, msg)
	}

	var items []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding dataset items: %w", err)
	}

	var listings []*Listing
	cfg := &mapstructure.DecoderConfig{
		Result:  &listings,
		TagName: "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding listings: %w", err)
	}

	c.logger.Debug("got dataset items from apify", zap.Int("count", len(listings)))

	return &Listings{Items: listings}, nil
}
