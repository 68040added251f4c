package repository

import (
	"context"
	"errors"

	"github.com/user/ingest-service/internal/entity"
)

// Typed fetch failures. Implementations wrap these with detail so callers can
// classify outcomes with errors.Is.
var (
	ErrFetchTimeout     = errors.New("fetch timed out")
	ErrConnectionFailed = errors.New("connection failed")
	ErrHTTPStatus       = errors.New("unexpected http status")
	ErrParseFailed      = errors.New("content parsing failed")
	ErrContentTooShort  = errors.New("extracted content too short")
)

// ScraperRepository defines the contract every scraper backend satisfies:
// given a URL, return the page content or a typed failure.
type ScraperRepository interface {
	Fetch(ctx context.Context, url string) (*entity.Page, error)
}

// ClassifyFetchError maps a fetch failure to the error kind stored on the
// article row.
func ClassifyFetchError(err error) entity.ErrorKind {
	switch {
	case errors.Is(err, ErrFetchTimeout):
		return entity.ErrorKindTimeout
	case errors.Is(err, ErrHTTPStatus):
		return entity.ErrorKindHTTPStatus
	case errors.Is(err, ErrContentTooShort):
		return entity.ErrorKindContentTooShort
	case errors.Is(err, ErrParseFailed):
		return entity.ErrorKindParse
	default:
		return entity.ErrorKindConnection
	}
}
