package chromedp_scraper

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const stealthUserAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36`

// stealthScript masks the most common automation fingerprints before any
// page script runs.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3] });
window.chrome = window.chrome || { runtime: {} };
`

// StealthScraper fetches pages with headless Chrome configured to reduce
// fingerprinting by target sites.
type StealthScraper struct {
	fetcher
}

// NewStealthScraper creates the anti-detection backend.
func NewStealthScraper(opts Options) (*StealthScraper, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = stealthUserAgent
	}
	return &StealthScraper{fetcher: newFetcher("stealth", opts, true)}, nil
}

// injectStealthScript registers the fingerprint-masking script so it runs in
// every new document before navigation completes.
func injectStealthScript() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
		return err
	})
}
