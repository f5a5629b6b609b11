// Package contentful fetches entries from the Contentful Content Delivery
// and Content Preview APIs.
package contentful

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/cobbinma/portfolio/internal/content"
	"github.com/cobbinma/portfolio/internal/model"
	"github.com/cobbinma/portfolio/internal/raw"
)

const (
	// DeliveryURL serves published content.
	DeliveryURL = "https://cdn.contentful.com"
	// PreviewURL serves drafts as well as published content; it needs a
	// preview token.
	PreviewURL = "https://preview.contentful.com"

	DefaultEnvironment = "master"
	DefaultTimeout     = 30 * time.Second

	maxResponseBytes = 10 * 1024 * 1024
)

var (
	ErrMissingSpace         = errors.New("contentful: space id is required")
	ErrMissingToken         = errors.New("contentful: access token is required")
	ErrUnexpectedStatusCode = errors.New("contentful: unexpected status code")
)

// compile-time check that *Client implements content.Fetcher
var _ content.Fetcher = (*Client)(nil)

// Config selects a space, environment and API.
type Config struct {
	SpaceID     string
	AccessToken string
	// Environment defaults to "master".
	Environment string
	// BaseURL defaults to DeliveryURL. Use PreviewURL with a preview token
	// for draft content.
	BaseURL string
	// Timeout bounds each request, including reading the body. Defaults to 30s.
	Timeout time.Duration
	// HTTPClient is the base client the bearer token transport wraps. Tests
	// pass httptest's client here; nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// Client is a content.Fetcher backed by the Contentful REST API.
type Client struct {
	httpClient *http.Client
	entriesURL string
	logger     *slog.Logger
}

// New builds a Client. The access token is sent as an OAuth2 bearer token on
// every request.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.SpaceID == "" {
		return nil, ErrMissingSpace
	}
	if cfg.AccessToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DeliveryURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	// oauth2.NewClient picks up the base client from the context and wraps
	// its transport with one that sets "Authorization: Bearer <token>".
	ctx := context.Background()
	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.AccessToken,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = cfg.Timeout

	entriesURL := fmt.Sprintf("%s/spaces/%s/environments/%s/entries",
		strings.TrimRight(cfg.BaseURL, "/"),
		url.PathEscape(cfg.SpaceID),
		url.PathEscape(cfg.Environment),
	)

	return &Client{
		httpClient: httpClient,
		entriesURL: entriesURL,
		logger:     logger,
	}, nil
}

// FetchEntry requests the entry with the given id and resolves its links from
// the response's includes. An empty result is reported as absent.
func (c *Client) FetchEntry(ctx context.Context, id string, opts content.Options) (raw.Value, error) {
	depth := opts.Depth()

	q := url.Values{}
	q.Set("sys.id", id)
	q.Set("include", strconv.Itoa(depth))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.entriesURL+"?"+q.Encode(), nil)
	if err != nil {
		return raw.Absent(), fmt.Errorf("contentful: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return raw.Absent(), fmt.Errorf("contentful: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return raw.Absent(), fmt.Errorf("contentful: reading response: %w", err)
	}

	c.logger.Debug("contentful request",
		"id", id,
		"include", depth,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return raw.Absent(), statusError(resp.StatusCode, body)
	}

	doc, err := raw.Parse(body)
	if err != nil {
		return raw.Absent(), fmt.Errorf("contentful: %w", err)
	}

	items, _ := doc.Get("items").Items()
	if len(items) == 0 {
		return raw.Absent(), nil
	}

	index := indexIncludes(items, doc.Get("includes"))
	lookup := func(_ context.Context, linkType, id string) (raw.Value, error) {
		v, ok := index[linkType+"/"+id]
		if !ok {
			return raw.Absent(), nil
		}
		return v, nil
	}

	return content.Resolve(ctx, items[0], depth, lookup)
}

// indexIncludes keys every record in the response by "Type/id". Entries in
// items can also be link targets, so they are indexed alongside includes.
func indexIncludes(items []raw.Value, includes raw.Value) map[string]raw.Value {
	index := make(map[string]raw.Value)
	add := func(kind string, records []raw.Value) {
		for _, r := range records {
			if id, ok := r.Path("sys", "id").Text(); ok {
				index[kind+"/"+id] = r
			}
		}
	}

	add(model.KindEntry, items)
	for _, kind := range []string{model.KindEntry, model.KindAsset} {
		records, _ := includes.Get(kind).Items()
		add(kind, records)
	}
	return index
}

// statusError builds an error from a Contentful error body:
//
//	{"sys": {"type": "Error", "id": "AccessTokenInvalid"}, "message": "..."}
func statusError(status int, body []byte) error {
	doc, err := raw.Parse(body)
	if err != nil {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, status)
	}
	errID, _ := doc.Path("sys", "id").Text()
	msg, _ := doc.Get("message").Text()
	if errID == "" && msg == "" {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, status)
	}
	return fmt.Errorf("%w: %d %s: %s", ErrUnexpectedStatusCode, status, errID, msg)
}
