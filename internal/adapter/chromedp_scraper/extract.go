package chromedp_scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MinTextLength is the minimum number of extracted text characters for a
// fetch to count as content rather than a consent wall or an error page.
const MinTextLength = 465

// ExtractText strips markup from an HTML document and returns its visible
// text with collapsed whitespace.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, iframe").Remove()

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}

	return strings.Join(strings.Fields(text), " "), nil
}
