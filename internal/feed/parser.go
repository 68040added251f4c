// Package feed fetches RSS and Atom feeds and extracts article links.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// httpPrefix is the scheme prefix used to decide whether a GUID is a usable
// URL.
const httpPrefix = "http"

// Item is a single entry discovered in a feed.
type Item struct {
	URL       string
	Title     string
	Published *time.Time
}

// Fetcher retrieves and parses a feed by URL.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]Item, error)
}

// Parser fetches feed XML over HTTP and parses it with gofeed.
type Parser struct {
	client *http.Client
}

// NewParser creates a Parser with the given request timeout.
func NewParser(timeout time.Duration) *Parser {
	return &Parser{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads and parses a feed. Items without a usable link are
// silently skipped; an empty feed returns a non-nil empty slice.
func (p *Parser) Fetch(ctx context.Context, feedURL string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed %s: unexpected status %d", feedURL, resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		link := extractLink(entry)
		if link == "" {
			continue
		}
		items = append(items, Item{
			URL:       link,
			Title:     entry.Title,
			Published: entry.PublishedParsed,
		})
	}

	return items, nil
}

// extractLink returns the best available URL from a feed entry. It prefers
// the explicit Link field, falling back to the GUID when it looks like an
// HTTP URL.
func extractLink(entry *gofeed.Item) string {
	if entry.Link != "" {
		return entry.Link
	}
	if strings.HasPrefix(entry.GUID, httpPrefix) {
		return entry.GUID
	}
	return ""
}
