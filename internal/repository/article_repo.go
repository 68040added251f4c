package repository

import (
	"context"
	"errors"

	"github.com/user/ingest-service/internal/entity"
)

// ErrDuplicateArticle is returned by Insert when the URL is already stored.
// The store enforces the uniqueness invariant, not the caller.
var ErrDuplicateArticle = errors.New("article already exists")

// ArticleRepository defines the interface for persisting per-article
// ingestion outcomes.
type ArticleRepository interface {
	// Exists reports whether an article with the given URL is already stored.
	Exists(ctx context.Context, url string) (bool, error)
	// Insert persists an article and returns the stored row. Fails with
	// ErrDuplicateArticle when the URL is already present.
	Insert(ctx context.Context, article *entity.Article) (*entity.Article, error)
	// ListByOperation returns all articles recorded by one run.
	ListByOperation(ctx context.Context, operationID int64) ([]*entity.Article, error)
	// DeleteByOperation removes every article recorded by one run.
	DeleteByOperation(ctx context.Context, operationID int64) (int64, error)
}
