package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <link>https://example.com</link>
    <item>
      <title>First article</title>
      <link>https://example.com/articles/1</link>
      <pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>GUID only</title>
      <guid>https://example.com/articles/2</guid>
    </item>
    <item>
      <title>No link at all</title>
      <guid isPermaLink="false">internal-id-3</guid>
    </item>
  </channel>
</rss>`

func TestFetchParsesItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	items, err := NewParser(5*time.Second).Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	// The entry without a usable link is dropped.
	require.Len(t, items, 2)
	assert.Equal(t, "https://example.com/articles/1", items[0].URL)
	assert.Equal(t, "First article", items[0].Title)
	require.NotNil(t, items[0].Published)
	assert.Equal(t, 2025, items[0].Published.Year())

	// GUID fallback when Link is absent.
	assert.Equal(t, "https://example.com/articles/2", items[1].URL)
	assert.Nil(t, items[1].Published)
}

func TestFetchEmptyFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>x</title></channel></rss>`))
	}))
	defer server.Close()

	items, err := NewParser(5*time.Second).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewParser(5*time.Second).Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetchInvalidXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	_, err := NewParser(5*time.Second).Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}
