// Package chromedp_scraper implements the scraper backends on top of
// headless Chrome.
package chromedp_scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/user/ingest-service/internal/entity"
	"github.com/user/ingest-service/internal/repository"
)

const defaultUserAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36`

// Options holds the launch configuration shared by both backends.
type Options struct {
	Headless   bool
	UserAgent  string
	Timeout    time.Duration
	Wait       time.Duration
	LaunchArgs []string
}

// HeadlessScraper fetches pages with plain headless Chrome.
type HeadlessScraper struct {
	fetcher
}

// NewHeadlessScraper creates the plain headless backend.
func NewHeadlessScraper(opts Options) (*HeadlessScraper, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	return &HeadlessScraper{fetcher: newFetcher("headless", opts, false)}, nil
}

// fetcher holds the allocator pool and fetch loop shared by the backend
// variants.
type fetcher struct {
	name          string
	opts          Options
	stealth       bool
	allocatorPool *sync.Pool
}

func newFetcher(name string, opts Options, stealth bool) fetcher {
	pool := &sync.Pool{
		New: func() interface{} {
			execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", opts.Headless),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(opts.UserAgent),
			)
			if stealth {
				execOpts = append(execOpts,
					chromedp.Flag("disable-blink-features", "AutomationControlled"),
				)
			}
			for _, arg := range opts.LaunchArgs {
				name, value := launchFlag(arg)
				execOpts = append(execOpts, chromedp.Flag(name, value))
			}
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), execOpts...)
			return allocCtx
		},
	}

	return fetcher{
		name:          name,
		opts:          opts,
		stealth:       stealth,
		allocatorPool: pool,
	}
}

// Fetch navigates to a URL with a pooled browser allocator and returns the
// page content or a typed failure.
func (f *fetcher) Fetch(ctx context.Context, url string) (*entity.Page, error) {
	allocCtx := f.allocatorPool.Get().(context.Context)
	defer f.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := f.opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	taskCtx, cancel = context.WithTimeout(taskCtx, timeout)
	defer cancel()

	startTime := time.Now()

	actions := []chromedp.Action{}
	if f.stealth {
		actions = append(actions, injectStealthScript())
	}

	resp, err := chromedp.RunResponse(taskCtx, append(actions, chromedp.Navigate(url))...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", repository.ErrFetchTimeout, url, timeout)
		}
		return nil, fmt.Errorf("%w: navigate %s: %v", repository.ErrConnectionFailed, url, err)
	}

	statusCode := 0
	if resp != nil {
		statusCode = int(resp.Status)
	}
	if statusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d for %s", repository.ErrHTTPStatus, statusCode, url)
	}

	var title, html string
	tasks := []chromedp.Action{}
	if f.opts.Wait > 0 {
		tasks = append(tasks, chromedp.Sleep(f.opts.Wait))
	}
	tasks = append(tasks,
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(taskCtx, tasks...); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", repository.ErrFetchTimeout, url, timeout)
		}
		return nil, fmt.Errorf("%w: extract %s: %v", repository.ErrParseFailed, url, err)
	}
	if html == "" {
		return nil, fmt.Errorf("%w: empty document for %s", repository.ErrParseFailed, url)
	}

	text, err := ExtractText(html)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", repository.ErrParseFailed, url, err)
	}
	if len(text) < MinTextLength {
		return nil, fmt.Errorf("%w: %d characters for %s (minimum %d)",
			repository.ErrContentTooShort, len(text), url, MinTextLength)
	}

	slog.Debug("fetched page",
		"backend", f.name,
		"url", url,
		"title", title,
		"status", statusCode,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)

	return &entity.Page{
		URL:            url,
		Title:          title,
		HTMLContent:    html,
		TextContent:    text,
		HTTPStatusCode: statusCode,
		FetchedAt:      time.Now().UTC(),
		ResponseTimeMS: int(time.Since(startTime).Milliseconds()),
	}, nil
}

// launchFlag converts a raw Chrome argument like
// "--disable-blink-features=AutomationControlled" into a chromedp flag pair.
func launchFlag(arg string) (string, interface{}) {
	arg = strings.TrimLeft(arg, "-")
	if name, value, found := strings.Cut(arg, "="); found {
		return name, value
	}
	return arg, true
}
