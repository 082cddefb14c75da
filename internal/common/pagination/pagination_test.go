package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/domain/apperr"
	"newslens/internal/common/pagination"
)

func TestParseQueryParams(t *testing.T) {
	t.Parallel()

	cfg := pagination.Config{DefaultPage: 1, DefaultLimit: 10, MaxLimit: 100}

	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
		wantErr   string
	}{
		{name: "defaults", url: "/news?q=x", wantPage: 1, wantLimit: 10},
		{name: "explicit values", url: "/news?page=3&limit=25", wantPage: 3, wantLimit: 25},
		{name: "zero page", url: "/news?page=0", wantErr: "page"},
		{name: "negative page", url: "/news?page=-2", wantErr: "page"},
		{name: "non-numeric page", url: "/news?page=abc", wantErr: "'abc'"},
		{name: "limit above max", url: "/news?limit=500", wantErr: "limit"},
		{name: "non-numeric limit", url: "/news?limit=ten", wantErr: "'ten'"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", tt.url, nil)
			params, err := pagination.ParseQueryParams(r, cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				taxErr, ok := apperr.From(err)
				require.True(t, ok)
				assert.Equal(t, apperr.KindValidation, taxErr.Kind)
				assert.Contains(t, taxErr.Message, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

func TestCalculateTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 20, 5},
		{101, 20, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pagination.CalculateTotalPages(tt.total, tt.limit),
			"total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestBuildMetadataConsistency(t *testing.T) {
	t.Parallel()

	t.Run("middle page", func(t *testing.T) {
		t.Parallel()
		m := pagination.Build(2, 5, 12, 5, true)
		assert.Equal(t, 3, m.TotalPages)
		assert.True(t, m.HasPreviousPage)
		require.NotNil(t, m.NextPage)
		assert.Equal(t, 3, *m.NextPage)
		require.NotNil(t, m.PreviousPage)
		assert.Equal(t, 1, *m.PreviousPage)
	})

	t.Run("first page", func(t *testing.T) {
		t.Parallel()
		m := pagination.Build(1, 5, 12, 5, true)
		assert.False(t, m.HasPreviousPage)
		assert.Nil(t, m.PreviousPage)
	})

	t.Run("last page", func(t *testing.T) {
		t.Parallel()
		m := pagination.Build(3, 5, 12, 2, false)
		assert.False(t, m.HasNextPage)
		assert.Nil(t, m.NextPage)
		assert.Equal(t, 2, m.ActualResults)
	})
}
