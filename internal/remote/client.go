package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultSearchBase  = "https://openlibrary.org"
	defaultEntityBase  = "https://www.wikidata.org"
	defaultHTTPTimeout = 30 * time.Second
	defaultRequestGap  = 1 * time.Second
	searchLimit        = 5
)

// WebClient implements Client over public catalog endpoints: Open Library
// for book search, Wikidata entity search for author and series ids.
// Requests are paced with a fixed gap to stay polite with both services.
type WebClient struct {
	httpClient *http.Client
	logger     *slog.Logger

	searchBase string
	entityBase string
	requestGap time.Duration
	lastSent   time.Time
}

// WebOption customizes the client.
type WebOption func(*WebClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) WebOption {
	return func(c *WebClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpoints overrides the service base URLs (useful for tests).
func WithEndpoints(searchBase, entityBase string) WebOption {
	return func(c *WebClient) {
		if searchBase != "" {
			c.searchBase = strings.TrimRight(searchBase, "/")
		}
		if entityBase != "" {
			c.entityBase = strings.TrimRight(entityBase, "/")
		}
	}
}

// WithRequestGap overrides the fixed inter-request delay.
func WithRequestGap(gap time.Duration) WebOption {
	return func(c *WebClient) {
		c.requestGap = gap
	}
}

// NewWebClient constructs a paced catalog client.
func NewWebClient(logger *slog.Logger, opts ...WebOption) *WebClient {
	if logger == nil {
		logger = slog.Default()
	}
	client := &WebClient{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logger,
		searchBase: defaultSearchBase,
		entityBase: defaultEntityBase,
		requestGap: defaultRequestGap,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SearchBooks queries the catalog's work search and maps the documents onto
// candidates in the order the service returned them.
func (c *WebClient) SearchBooks(ctx context.Context, title, author string) ([]Candidate, error) {
	query := url.Values{}
	query.Set("title", title)
	if author != "" {
		query.Set("author", author)
	}
	query.Set("limit", fmt.Sprint(searchLimit))

	var payload struct {
		Docs []struct {
			Key              string   `json:"key"`
			Title            string   `json:"title"`
			AuthorName       []string `json:"author_name"`
			FirstPublishYear *float64 `json:"first_publish_year"`
			MedianPages      *float64 `json:"number_of_pages_median"`
			Language         []string `json:"language"`
		} `json:"docs"`
	}
	if err := c.getJSON(ctx, c.searchBase+"/search.json?"+query.Encode(), &payload); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		candidate := Candidate{
			Work:      strings.TrimPrefix(doc.Key, "/works/"),
			Title:     doc.Title,
			Published: doc.FirstPublishYear,
			Pages:     doc.MedianPages,
		}
		if len(doc.AuthorName) > 0 {
			candidate.Author = doc.AuthorName[0]
		}
		if len(doc.Language) > 0 {
			candidate.Language = doc.Language[0]
		}
		out = append(out, candidate)
	}
	return out, nil
}

// AuthorID resolves an author name to its entity id.
func (c *WebClient) AuthorID(ctx context.Context, name string) (string, error) {
	return c.entityID(ctx, name)
}

// SeriesID resolves a series name to its entity id.
func (c *WebClient) SeriesID(ctx context.Context, name string) (string, error) {
	return c.entityID(ctx, name)
}

func (c *WebClient) entityID(ctx context.Context, name string) (string, error) {
	query := url.Values{}
	query.Set("action", "wbsearchentities")
	query.Set("format", "json")
	query.Set("language", "en")
	query.Set("type", "item")
	query.Set("search", name)

	var payload struct {
		Search []struct {
			ID string `json:"id"`
		} `json:"search"`
	}
	if err := c.getJSON(ctx, c.entityBase+"/w/api.php?"+query.Encode(), &payload); err != nil {
		return "", err
	}
	if len(payload.Search) == 0 {
		return "", fmt.Errorf("no entity matches %q", name)
	}
	return payload.Search[0].ID, nil
}

func (c *WebClient) getJSON(ctx context.Context, endpoint string, target any) error {
	if err := c.pace(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("metadata request: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("metadata request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metadata request: http %d from %s", resp.StatusCode, req.URL.Host)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("metadata request: decode response: %w", err)
	}
	return nil
}

// pace enforces the fixed gap between consecutive requests.
func (c *WebClient) pace(ctx context.Context) error {
	if !c.lastSent.IsZero() {
		if wait := c.requestGap - time.Since(c.lastSent); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	c.lastSent = time.Now()
	return nil
}
