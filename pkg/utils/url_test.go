package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomain(t *testing.T) {
	assert.Equal(t, "example.com", Domain("https://example.com/post/1"))
	assert.Equal(t, "example.com", Domain("https://www.example.com/post/1"))
	assert.Equal(t, "blog.example.com", Domain("http://blog.example.com"))
	assert.Equal(t, "", Domain("://not-a-url"))
}

func TestToAbsoluteURL(t *testing.T) {
	base, err := url.Parse("https://example.com/feed/")
	require.NoError(t, err)

	abs, err := ToAbsoluteURL(base, "/articles/42")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/articles/42", abs)

	abs, err = ToAbsoluteURL(base, "https://other.com/x")
	require.NoError(t, err)
	assert.Equal(t, "https://other.com/x", abs)
}
