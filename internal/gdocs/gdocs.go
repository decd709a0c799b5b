package gdocs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

const (
	apiURL        = "https://docs.googleapis.com"
	readonlyScope = "https://www.googleapis.com/auth/documents.readonly"
)

// Client fetches plain text from Google Docs documents using a service
// account.
type Client struct {
	ctx        context.Context
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

// document mirrors the subset of the Docs API response we extract text from.
type document struct {
	Body struct {
		Content []struct {
			Paragraph *struct {
				Elements []struct {
					TextRun *struct {
						Content string `json:"content"`
					} `json:"textRun"`
				} `json:"elements"`
			} `json:"paragraph"`
		} `json:"content"`
	} `json:"body"`
}

func New(ctx context.Context, logger *zap.Logger, serviceAccountFile string) (*Client, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("reading service account file: %w", err)
	}

	cfg, err := google.JWTConfigFromJSON(data, readonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}

	httpClient := cfg.Client(ctx)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		ctx:        ctx,
		logger:     logger,
		HTTPClient: httpClient,
		APIURL:     apiURL,
	}, nil
}

// DocumentText returns the concatenated text runs of the document body.
func (c *Client) DocumentText(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("document id is required")
	}

	url := fmt.Sprintf("%s/v1/documents/%s", c.APIURL, id)

	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	c.logger.Debug("make request", zap.String("url", url))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("bad status %s: %s", resp.Status, msg)
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decoding document: %w", err)
	}

	return extractText(&doc), nil
}

func extractText(doc *document) string {
	var sb strings.Builder
	for _, element := range doc.Body.Content {
		if element.Paragraph == nil {
			continue
		}
		for _, el := range element.Paragraph.Elements {
			if el.TextRun == nil {
				continue
			}
			sb.WriteString(el.TextRun.Content)
		}
	}
	return sb.String()
}
