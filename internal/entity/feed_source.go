package entity

// FeedSource is a configured RSS feed bound to a scraper backend. Loaded from
// configuration at run start and immutable for the duration of a run.
type FeedSource struct {
	Name    string
	URL     string
	Backend string
	Enabled bool
}
