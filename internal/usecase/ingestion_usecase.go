package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/user/ingest-service/internal/entity"
	"github.com/user/ingest-service/internal/feed"
	"github.com/user/ingest-service/internal/repository"
	"github.com/user/ingest-service/pkg/gitinfo"
	"github.com/user/ingest-service/pkg/metrics"
	"github.com/user/ingest-service/pkg/utils"
)

// Ingestor defines the interface for one complete ingestion pass.
type Ingestor interface {
	Run(ctx context.Context) (*entity.Operation, error)
}

// RunOptions carries the run-wide settings snapshotted onto the operation
// record.
type RunOptions struct {
	ArticlesLimit int
	DateThreshold time.Time
	ConfigPath    string
	DBPath        string
}

type ingestionUseCase struct {
	feeds         []entity.FeedSource
	scrapers      map[string]repository.ScraperRepository
	feedFetcher   feed.Fetcher
	articleRepo   repository.ArticleRepository
	operationRepo repository.OperationRepository
	git           gitinfo.Metadata
	opts          RunOptions
}

// NewIngestionUseCase creates a new instance of the ingestion use case. Git
// metadata is injected so provenance is captured exactly once, at the call
// site that starts the run.
func NewIngestionUseCase(
	feeds []entity.FeedSource,
	scrapers map[string]repository.ScraperRepository,
	feedFetcher feed.Fetcher,
	articleRepo repository.ArticleRepository,
	operationRepo repository.OperationRepository,
	git gitinfo.Metadata,
	opts RunOptions,
) Ingestor {
	return &ingestionUseCase{
		feeds:         feeds,
		scrapers:      scrapers,
		feedFetcher:   feedFetcher,
		articleRepo:   articleRepo,
		operationRepo: operationRepo,
		git:           git,
		opts:          opts,
	}
}

// Run executes one ingestion pass: create the run record, walk every enabled
// feed through its backend, record per-article outcomes, finalize. A single
// article's failure is recorded and never fatal; a storage write failure
// aborts the remaining work and marks the run failed.
func (uc *ingestionUseCase) Run(ctx context.Context) (*entity.Operation, error) {
	op, err := uc.startOperation(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("ingestion run started",
		"run_id", op.RunID,
		"feeds", len(uc.feeds),
		"articles_limit", uc.opts.ArticlesLimit,
		"git_commit", shortCommit(uc.git.Commit),
	)

	counters, fatalErr := uc.processFeeds(ctx, op)

	status := entity.OperationStatusCompleted
	if fatalErr != nil {
		status = entity.OperationStatusFailed
	}

	if finErr := uc.operationRepo.Finalize(ctx, op.ID, counters, status, time.Now().UTC()); finErr != nil {
		if fatalErr == nil {
			fatalErr = fmt.Errorf("finalize run: %w", finErr)
		}
		slog.Error("failed to finalize run record", "run_id", op.RunID, "error", finErr)
	}

	final, getErr := uc.operationRepo.Get(ctx, op.ID)
	if getErr != nil {
		final = op
	}

	slog.Info("ingestion run finished",
		"run_id", op.RunID,
		"status", string(status),
		"attempted", counters.Attempted,
		"succeeded", counters.Succeeded,
		"failed", counters.Failed,
	)

	return final, fatalErr
}

func (uc *ingestionUseCase) startOperation(ctx context.Context) (*entity.Operation, error) {
	parameters, err := json.Marshal(map[string]any{
		"articles_limit": uc.opts.ArticlesLimit,
		"date_threshold": formatThreshold(uc.opts.DateThreshold),
		"config_path":    uc.opts.ConfigPath,
		"db_path":        uc.opts.DBPath,
		"git": map[string]string{
			"commit": uc.git.Commit,
			"branch": uc.git.Branch,
			"repo":   uc.git.Repo,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal run parameters: %w", err)
	}

	op, err := uc.operationRepo.Insert(ctx, &entity.Operation{
		RunID:      uuid.NewString(),
		StartedAt:  time.Now().UTC(),
		Status:     entity.OperationStatusRunning,
		GitCommit:  uc.git.Commit,
		GitBranch:  uc.git.Branch,
		GitRepo:    uc.git.Repo,
		Parameters: string(parameters),
	})
	if err != nil {
		return nil, fmt.Errorf("create run record: %w", err)
	}
	return op, nil
}

func (uc *ingestionUseCase) processFeeds(ctx context.Context, op *entity.Operation) (repository.Counters, error) {
	var counters repository.Counters

	for _, source := range uc.feeds {
		if !source.Enabled {
			slog.Debug("skipping disabled feed", "feed", source.Name)
			continue
		}

		scraper, ok := uc.scrapers[source.Backend]
		if !ok {
			slog.Warn("no scraper registered for backend, skipping feed",
				"feed", source.Name, "backend", source.Backend)
			continue
		}

		items, err := uc.feedFetcher.Fetch(ctx, source.URL)
		if err != nil {
			// A broken feed costs its own articles only, never the run.
			slog.Error("feed fetch failed", "feed", source.Name, "url", source.URL, "error", err)
			continue
		}

		slog.Info("processing feed", "feed", source.Name, "backend", source.Backend, "items", len(items))

		done, err := uc.processItems(ctx, op, source, scraper, items, &counters)
		if err != nil {
			return counters, err
		}
		if done {
			break
		}
	}

	return counters, nil
}

// processItems walks one feed's items. It returns done=true once the per-run
// article limit is reached, and a non-nil error only for storage failures.
func (uc *ingestionUseCase) processItems(
	ctx context.Context,
	op *entity.Operation,
	source entity.FeedSource,
	scraper repository.ScraperRepository,
	items []feed.Item,
	counters *repository.Counters,
) (bool, error) {
	for _, item := range items {
		if uc.opts.ArticlesLimit > 0 && counters.Attempted >= uc.opts.ArticlesLimit {
			slog.Info("article limit reached", "limit", uc.opts.ArticlesLimit)
			metrics.ArticlesSkipped.WithLabelValues("limit_reached").Inc()
			return true, nil
		}

		if uc.tooOld(item) {
			slog.Debug("skipping article older than threshold", "url", item.URL)
			metrics.ArticlesSkipped.WithLabelValues("too_old").Inc()
			continue
		}

		exists, err := uc.articleRepo.Exists(ctx, item.URL)
		if err != nil {
			return false, fmt.Errorf("check article existence for %s: %w", item.URL, err)
		}
		if exists {
			slog.Debug("skipping already ingested article", "url", item.URL)
			metrics.ArticlesSkipped.WithLabelValues("duplicate").Inc()
			continue
		}

		counters.Attempted++
		article := uc.fetchArticle(ctx, op, source, scraper, item)

		if _, err := uc.articleRepo.Insert(ctx, article); err != nil {
			if errors.Is(err, repository.ErrDuplicateArticle) {
				// Same URL listed twice within one feed pass; the first row
				// stands and this occurrence is not an attempt.
				counters.Attempted--
				metrics.ArticlesSkipped.WithLabelValues("duplicate").Inc()
				continue
			}
			return false, fmt.Errorf("store article %s: %w", item.URL, err)
		}

		if article.Status == entity.ArticleStatusSuccess {
			counters.Succeeded++
		} else {
			counters.Failed++
		}
	}

	return false, nil
}

// fetchArticle invokes the backend and converts the outcome into the row to
// store. Fetch failures become error rows, they do not propagate.
func (uc *ingestionUseCase) fetchArticle(
	ctx context.Context,
	op *entity.Operation,
	source entity.FeedSource,
	scraper repository.ScraperRepository,
	item feed.Item,
) *entity.Article {
	article := &entity.Article{
		OperationID: op.ID,
		SourceFeed:  source.URL,
		URL:         item.URL,
		URLDomain:   utils.Domain(item.URL),
		Title:       item.Title,
		PublishedAt: item.Published,
		FetchedAt:   time.Now().UTC(),
	}

	startTime := time.Now()
	page, err := scraper.Fetch(ctx, item.URL)
	metrics.FetchDuration.WithLabelValues(article.URLDomain).Observe(time.Since(startTime).Seconds())

	if err != nil {
		kind := repository.ClassifyFetchError(err)
		slog.Warn("article fetch failed", "url", item.URL, "error_kind", string(kind), "error", err)
		metrics.FetchesTotal.WithLabelValues("error", string(kind)).Inc()

		article.Status = entity.ArticleStatusError
		article.ErrorKind = kind
		article.ErrorMessage = err.Error()
		return article
	}

	metrics.FetchesTotal.WithLabelValues("success", "").Inc()

	article.Status = entity.ArticleStatusSuccess
	article.FetchedAt = page.FetchedAt
	article.TextContent = page.TextContent
	article.HTMLContent = page.HTMLContent
	if page.Title != "" {
		article.Title = page.Title
	}
	return article
}

func (uc *ingestionUseCase) tooOld(item feed.Item) bool {
	if uc.opts.DateThreshold.IsZero() || item.Published == nil {
		return false
	}
	return item.Published.Before(uc.opts.DateThreshold)
}

func formatThreshold(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}
