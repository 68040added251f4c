package entity

import "time"

// ArticleStatus reflects the stored outcome of an article fetch.
type ArticleStatus string

const (
	ArticleStatusSuccess ArticleStatus = "success"
	ArticleStatusError   ArticleStatus = "error"
)

// ErrorKind classifies a failed article fetch.
type ErrorKind string

const (
	ErrorKindConnection      ErrorKind = "connection"
	ErrorKindHTTPStatus      ErrorKind = "http_status"
	ErrorKindTimeout         ErrorKind = "timeout"
	ErrorKindParse           ErrorKind = "parse"
	ErrorKindContentTooShort ErrorKind = "content_too_short"
)

// Article mirrors the `articles` SQLite table schema. A URL appears at most
// once across the whole store; the row belongs to the operation that first
// encountered it.
type Article struct {
	ID           int64
	OperationID  int64
	SourceFeed   string
	URL          string
	URLDomain    string
	Title        string
	PublishedAt  *time.Time
	FetchedAt    time.Time
	TextContent  string
	HTMLContent  string
	Status       ArticleStatus
	ErrorKind    ErrorKind
	ErrorMessage string
}
