package entity

import "time"

// Page holds the content retrieved for a single article URL by a scraper
// backend.
type Page struct {
	URL            string
	Title          string
	HTMLContent    string
	TextContent    string
	HTTPStatusCode int
	FetchedAt      time.Time
	ResponseTimeMS int
}
