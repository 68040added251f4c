package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/user/ingest-service/internal/adapter/chromedp_scraper"
	"github.com/user/ingest-service/internal/adapter/sqlite"
	"github.com/user/ingest-service/internal/entity"
	"github.com/user/ingest-service/internal/repository"
	"github.com/user/ingest-service/pkg/config"
)

// openStore loads the configuration and opens the database it points at.
func openStore(configPath string) (*config.Config, *sqlite.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlite.Open(cfg.Global.DBPath)
	if err != nil {
		return nil, nil, err
	}

	return cfg, store, nil
}

// buildFeeds flattens the configured feed groups into run order: backends
// alphabetically, feeds in their listed order.
func buildFeeds(cfg *config.Config) []entity.FeedSource {
	backends := make([]string, 0, len(cfg.RSSFeeds))
	for backend := range cfg.RSSFeeds {
		backends = append(backends, backend)
	}
	sort.Strings(backends)

	var feeds []entity.FeedSource
	for _, backend := range backends {
		for _, f := range cfg.RSSFeeds[backend] {
			feeds = append(feeds, entity.FeedSource{
				Name:    f.Name,
				URL:     f.URL,
				Backend: backend,
				Enabled: f.IsEnabled(),
			})
		}
	}
	return feeds
}

// buildScrapers constructs one backend instance per feed group present in
// the configuration.
func buildScrapers(cfg *config.Config) (map[string]repository.ScraperRepository, error) {
	scrapers := make(map[string]repository.ScraperRepository, len(cfg.RSSFeeds))

	for backend := range cfg.RSSFeeds {
		sc := cfg.Scraper(backend)
		opts := chromedp_scraper.Options{
			Headless:   sc.IsHeadless(),
			UserAgent:  sc.UserAgent,
			Timeout:    cfg.Timeout(),
			Wait:       time.Duration(sc.WaitMs) * time.Millisecond,
			LaunchArgs: sc.LaunchArgs,
		}

		switch backend {
		case config.BackendHeadless:
			scraper, err := chromedp_scraper.NewHeadlessScraper(opts)
			if err != nil {
				return nil, fmt.Errorf("init headless scraper: %w", err)
			}
			scrapers[backend] = scraper
		case config.BackendStealth:
			scraper, err := chromedp_scraper.NewStealthScraper(opts)
			if err != nil {
				return nil, fmt.Errorf("init stealth scraper: %w", err)
			}
			scrapers[backend] = scraper
		default:
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, backend)
		}
	}

	return scrapers, nil
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
