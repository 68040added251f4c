package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/user/ingest-service/internal/entity"
	"github.com/user/ingest-service/internal/repository"
)

// ArticleRepoImpl provides a concrete implementation of ArticleRepository
// backed by the SQLite store.
type ArticleRepoImpl struct {
	store *Store
}

// NewArticleRepo creates a new instance of ArticleRepoImpl.
func NewArticleRepo(store *Store) *ArticleRepoImpl {
	return &ArticleRepoImpl{store: store}
}

// Exists reports whether an article with the given URL is already stored.
func (r *ArticleRepoImpl) Exists(ctx context.Context, url string) (bool, error) {
	var count int
	err := r.store.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM articles WHERE url = ?", url,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check article existence: %w", err)
	}
	return count > 0, nil
}

// Insert persists an article row. The unique index on url turns a duplicate
// into ErrDuplicateArticle.
func (r *ArticleRepoImpl) Insert(ctx context.Context, article *entity.Article) (*entity.Article, error) {
	res, err := r.store.db.ExecContext(ctx,
		`INSERT INTO articles (
            operation_id, source_feed, url, url_domain, title,
            published_at, fetched_at, text_content, html_content,
            status, error_kind, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		article.OperationID,
		article.SourceFeed,
		article.URL,
		article.URLDomain,
		article.Title,
		nullableTime(article.PublishedAt),
		article.FetchedAt.UTC().Format(time.RFC3339Nano),
		nullableString(article.TextContent),
		nullableString(article.HTMLContent),
		string(article.Status),
		nullableString(string(article.ErrorKind)),
		nullableString(article.ErrorMessage),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", repository.ErrDuplicateArticle, article.URL)
		}
		return nil, fmt.Errorf("insert article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return r.getByID(ctx, id)
}

// ListByOperation returns all articles recorded by one run, oldest first.
func (r *ArticleRepoImpl) ListByOperation(ctx context.Context, operationID int64) ([]*entity.Article, error) {
	rows, err := r.store.db.QueryContext(ctx,
		articleSelect+" WHERE operation_id = ? ORDER BY id", operationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []*entity.Article
	for rows.Next() {
		article, scanErr := scanArticle(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// DeleteByOperation removes every article recorded by one run and returns
// the number of deleted rows.
func (r *ArticleRepoImpl) DeleteByOperation(ctx context.Context, operationID int64) (int64, error) {
	res, err := r.store.db.ExecContext(ctx,
		"DELETE FROM articles WHERE operation_id = ?", operationID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete articles: %w", err)
	}
	return res.RowsAffected()
}

const articleSelect = `SELECT
    id, operation_id, source_feed, url, url_domain, title,
    published_at, fetched_at, text_content, html_content,
    status, error_kind, error_message
FROM articles`

func (r *ArticleRepoImpl) getByID(ctx context.Context, id int64) (*entity.Article, error) {
	row := r.store.db.QueryRowContext(ctx, articleSelect+" WHERE id = ?", id)
	return scanArticle(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*entity.Article, error) {
	var (
		article      entity.Article
		publishedAt  sql.NullString
		fetchedAt    string
		textContent  sql.NullString
		htmlContent  sql.NullString
		status       string
		errorKind    sql.NullString
		errorMessage sql.NullString
	)
	err := row.Scan(
		&article.ID,
		&article.OperationID,
		&article.SourceFeed,
		&article.URL,
		&article.URLDomain,
		&article.Title,
		&publishedAt,
		&fetchedAt,
		&textContent,
		&htmlContent,
		&status,
		&errorKind,
		&errorMessage,
	)
	if err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}

	article.Status = entity.ArticleStatus(status)
	article.TextContent = textContent.String
	article.HTMLContent = htmlContent.String
	article.ErrorKind = entity.ErrorKind(errorKind.String)
	article.ErrorMessage = errorMessage.String

	if article.FetchedAt, err = parseTimestamp(fetchedAt); err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		published, parseErr := parseTimestamp(publishedAt.String)
		if parseErr != nil {
			return nil, parseErr
		}
		article.PublishedAt = &published
	}

	return &article, nil
}

func parseTimestamp(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return parsed, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
