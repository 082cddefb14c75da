package pathutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/handler/http/pathutil"
)

func TestExtractID(t *testing.T) {
	id, err := pathutil.ExtractID("/api/articles/123", "/api/articles/")
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	for _, path := range []string{"/api/articles/abc", "/api/articles/0", "/api/articles/-5", "/api/articles/"} {
		_, err := pathutil.ExtractID(path, "/api/articles/")
		assert.ErrorIs(t, err, pathutil.ErrInvalidID, path)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/articles/123", "/api/articles/:id"},
		{"/api/articles/123/analyze", "/api/articles/:id/analyze"},
		{"/api/articles/123?page=1", "/api/articles/:id"},
		{"/api/articles/123/", "/api/articles/:id"},
		{"/api/providers/gnews", "/api/providers/:name"},
		{"/api/news/search", "/api/news/search"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pathutil.NormalizePath(tt.in), tt.in)
	}
}
