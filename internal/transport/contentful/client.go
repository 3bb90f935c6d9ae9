// Package contentful adapts the Contentful Delivery API into the narrow
// catalog entries the sync pipeline consumes.
package contentful

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/modewear/storefront-sync/internal/domain/catalog"
)

// Client pages through the Delivery API entries listing. includeDepth inlines
// one level of linked entries (category, brand) and assets (images) via the
// response's includes section, so the transformer never needs a second
// round-trip.
type Client struct {
	spaceID      string
	environment  string
	token        string
	baseURL      string
	pageSize     int
	includeDepth int
	http         *retryablehttp.Client
	logger       *zap.Logger
}

// Config holds the content source settings.
type Config struct {
	SpaceID      string
	AccessToken  string
	Environment  string // default "master"
	BaseURL      string // default production Delivery API
	PageSize     int    // default 100
	IncludeDepth int    // default 2
	Logger       *zap.Logger
}

// NewClient creates a Delivery API client.
func NewClient(cfg Config) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	c := &Client{
		spaceID:      cfg.SpaceID,
		environment:  cfg.Environment,
		token:        cfg.AccessToken,
		baseURL:      cfg.BaseURL,
		pageSize:     cfg.PageSize,
		includeDepth: cfg.IncludeDepth,
		http:         rc,
		logger:       cfg.Logger,
	}
	if c.environment == "" {
		c.environment = "master"
	}
	if c.baseURL == "" {
		c.baseURL = "https://cdn.contentful.com"
	}
	if c.pageSize <= 0 {
		c.pageSize = 100
	}
	if c.includeDepth <= 0 {
		c.includeDepth = 2
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// FetchAll lists every entry of the content type in one CMS locale. Pages are
// requested strictly in order until a page returns fewer items than the page
// size. Any request or decode error is fatal for the caller's locale sync.
func (c *Client) FetchAll(ctx context.Context, contentType, cmsLocale string) ([]catalog.Entry, error) {
	var all []catalog.Entry
	skip := 0
	pages := 0

	for {
		page, err := c.fetchPage(ctx, contentType, cmsLocale, skip)
		if err != nil {
			return nil, err
		}
		pages++

		entries, err := decodeEntries(page)
		if err != nil {
			return nil, fmt.Errorf("decode entries at skip %d: %w", skip, err)
		}
		all = append(all, entries...)

		if len(page.Items) < c.pageSize {
			break
		}
		skip += c.pageSize
	}

	c.logger.Debug("fetched entries",
		zap.String("content_type", contentType),
		zap.String("locale", cmsLocale),
		zap.Int("pages", pages),
		zap.Int("entries", len(all)),
	)
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, contentType, cmsLocale string, skip int) (*entriesResponse, error) {
	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("content_type", contentType)
	q.Set("locale", cmsLocale)
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(c.pageSize))
	q.Set("include", strconv.Itoa(c.includeDepth))

	u := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.baseURL, c.spaceID, c.environment, q.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build entries request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, fmt.Errorf("contentful error %d: %v", resp.StatusCode, body)
	}

	var page entriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode entries response: %w", err)
	}
	return &page, nil
}
