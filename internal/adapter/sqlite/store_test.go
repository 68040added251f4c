package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/ingest-service/internal/entity"
	"github.com/user/ingest-service/internal/repository"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ingest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestOperation(t *testing.T, store *Store) *entity.Operation {
	t.Helper()
	ops := NewOperationRepo(store)
	op, err := ops.Insert(context.Background(), &entity.Operation{
		RunID:     "run-" + t.Name(),
		StartedAt: time.Now().UTC(),
		Status:    entity.OperationStatusRunning,
		GitCommit: "abc123",
		GitBranch: "main",
		GitRepo:   "git@example.com:org/repo.git",
	})
	require.NoError(t, err)
	return op
}

func testArticle(opID int64, url string) *entity.Article {
	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &entity.Article{
		OperationID: opID,
		SourceFeed:  "https://example.com/rss",
		URL:         url,
		URLDomain:   "example.com",
		Title:       "a title",
		PublishedAt: &published,
		FetchedAt:   time.Now().UTC(),
		TextContent: "body text",
		HTMLContent: "<html><body>body text</body></html>",
		Status:      entity.ArticleStatusSuccess,
	}
}

func TestOpenCreatesSchemaOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening an initialized database must not fail.
	store, err = Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	require.NoError(t, store.Close())
}

func TestInsertAndGetArticle(t *testing.T) {
	store := openTestStore(t)
	op := newTestOperation(t, store)
	articles := NewArticleRepo(store)

	stored, err := articles.Insert(context.Background(), testArticle(op.ID, "https://example.com/a"))
	require.NoError(t, err)

	assert.NotZero(t, stored.ID)
	assert.Equal(t, op.ID, stored.OperationID)
	assert.Equal(t, "https://example.com/a", stored.URL)
	assert.Equal(t, entity.ArticleStatusSuccess, stored.Status)
	require.NotNil(t, stored.PublishedAt)
	assert.Equal(t, 2025, stored.PublishedAt.Year())
	assert.Empty(t, stored.ErrorKind)
}

func TestInsertDuplicateURL(t *testing.T) {
	store := openTestStore(t)
	op := newTestOperation(t, store)
	articles := NewArticleRepo(store)
	ctx := context.Background()

	_, err := articles.Insert(ctx, testArticle(op.ID, "https://example.com/dup"))
	require.NoError(t, err)

	_, err = articles.Insert(ctx, testArticle(op.ID, "https://example.com/dup"))
	assert.ErrorIs(t, err, repository.ErrDuplicateArticle)

	// The duplicate attempt must not have produced a second row.
	list, err := articles.ListByOperation(ctx, op.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDuplicateAcrossOperations(t *testing.T) {
	store := openTestStore(t)
	articles := NewArticleRepo(store)
	ops := NewOperationRepo(store)
	ctx := context.Background()

	first, err := ops.Insert(ctx, &entity.Operation{RunID: "r1", StartedAt: time.Now(), Status: entity.OperationStatusRunning})
	require.NoError(t, err)
	second, err := ops.Insert(ctx, &entity.Operation{RunID: "r2", StartedAt: time.Now(), Status: entity.OperationStatusRunning})
	require.NoError(t, err)

	_, err = articles.Insert(ctx, testArticle(first.ID, "https://example.com/shared"))
	require.NoError(t, err)

	// Uniqueness holds across runs, not just within one.
	_, err = articles.Insert(ctx, testArticle(second.ID, "https://example.com/shared"))
	assert.ErrorIs(t, err, repository.ErrDuplicateArticle)
}

func TestExists(t *testing.T) {
	store := openTestStore(t)
	op := newTestOperation(t, store)
	articles := NewArticleRepo(store)
	ctx := context.Background()

	exists, err := articles.Exists(ctx, "https://example.com/missing")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = articles.Insert(ctx, testArticle(op.ID, "https://example.com/present"))
	require.NoError(t, err)

	exists, err = articles.Exists(ctx, "https://example.com/present")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInsertErrorArticle(t *testing.T) {
	store := openTestStore(t)
	op := newTestOperation(t, store)
	articles := NewArticleRepo(store)

	article := testArticle(op.ID, "https://example.com/broken")
	article.Status = entity.ArticleStatusError
	article.ErrorKind = entity.ErrorKindTimeout
	article.ErrorMessage = "fetch timed out after 30s"
	article.TextContent = ""
	article.HTMLContent = ""

	stored, err := articles.Insert(context.Background(), article)
	require.NoError(t, err)
	assert.Equal(t, entity.ArticleStatusError, stored.Status)
	assert.Equal(t, entity.ErrorKindTimeout, stored.ErrorKind)
	assert.Equal(t, "fetch timed out after 30s", stored.ErrorMessage)
	assert.Empty(t, stored.TextContent)
}

func TestFinalizeOperation(t *testing.T) {
	store := openTestStore(t)
	op := newTestOperation(t, store)
	ops := NewOperationRepo(store)
	ctx := context.Background()

	finished := time.Now().UTC()
	counters := repository.Counters{Attempted: 5, Succeeded: 3, Failed: 2}
	require.NoError(t, ops.Finalize(ctx, op.ID, counters, entity.OperationStatusCompleted, finished))

	got, err := ops.Get(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OperationStatusCompleted, got.Status)
	assert.Equal(t, 5, got.ArticlesAttempted)
	assert.Equal(t, 3, got.ArticlesSucceeded)
	assert.Equal(t, 2, got.ArticlesFailed)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, got.ArticlesAttempted, got.ArticlesSucceeded+got.ArticlesFailed)
}

func TestFinalizeUnknownOperation(t *testing.T) {
	store := openTestStore(t)
	ops := NewOperationRepo(store)
	err := ops.Finalize(context.Background(), 9999, repository.Counters{}, entity.OperationStatusCompleted, time.Now())
	assert.Error(t, err)
}

func TestListOperationsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ops := NewOperationRepo(store)
	ctx := context.Background()

	for _, runID := range []string{"r1", "r2", "r3"} {
		_, err := ops.Insert(ctx, &entity.Operation{RunID: runID, StartedAt: time.Now(), Status: entity.OperationStatusRunning})
		require.NoError(t, err)
	}

	list, err := ops.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "r3", list[0].RunID)
	assert.Equal(t, "r1", list[2].RunID)
}

func TestDeleteOperationCascades(t *testing.T) {
	store := openTestStore(t)
	op := newTestOperation(t, store)
	articles := NewArticleRepo(store)
	ops := NewOperationRepo(store)
	ctx := context.Background()

	_, err := articles.Insert(ctx, testArticle(op.ID, "https://example.com/1"))
	require.NoError(t, err)
	_, err = articles.Insert(ctx, testArticle(op.ID, "https://example.com/2"))
	require.NoError(t, err)

	require.NoError(t, ops.Delete(ctx, op.ID))

	list, err := articles.ListByOperation(ctx, op.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// The freed URLs may be ingested again by a later run.
	exists, err := articles.Exists(ctx, "https://example.com/1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteByOperation(t *testing.T) {
	store := openTestStore(t)
	op := newTestOperation(t, store)
	articles := NewArticleRepo(store)
	ctx := context.Background()

	_, err := articles.Insert(ctx, testArticle(op.ID, "https://example.com/x"))
	require.NoError(t, err)

	deleted, err := articles.DeleteByOperation(ctx, op.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
