package provider_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/domain/apperr"
	"newslens/internal/news/provider"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryFromCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		creds       provider.Credentials
		wantNames   []string
		wantDefault string
	}{
		{
			name:        "all keys present",
			creds:       provider.Credentials{GNewsAPIKey: "a", NewsAPIKey: "b", NewsDataAPIKey: "c"},
			wantNames:   []string{"gnews", "newsapi", "newsdata"},
			wantDefault: "gnews",
		},
		{
			name:        "missing keys skipped",
			creds:       provider.Credentials{NewsAPIKey: "b"},
			wantNames:   []string{"newsapi"},
			wantDefault: "newsapi",
		},
		{
			name:        "no keys at all",
			creds:       provider.Credentials{},
			wantNames:   []string{},
			wantDefault: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg := provider.NewRegistryFromCredentials(tt.creds, discardLogger())
			assert.ElementsMatch(t, tt.wantNames, reg.Names())
			assert.Equal(t, tt.wantDefault, reg.Default())
		})
	}
}

func TestRegistrySetDefault(t *testing.T) {
	t.Parallel()

	reg := provider.NewRegistryFromCredentials(provider.Credentials{
		GNewsAPIKey: "a",
		NewsAPIKey:  "b",
	}, discardLogger())

	require.NoError(t, reg.SetDefault("newsapi"))
	assert.Equal(t, "newsapi", reg.Default())

	err := reg.SetDefault("unregistered")
	require.Error(t, err)

	taxErr, ok := apperr.From(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindProviderNotFound, taxErr.Kind)
	assert.Equal(t, []string{"gnews", "newsapi"}, taxErr.Available)

	// Failed SetDefault leaves the previous default untouched.
	assert.Equal(t, "newsapi", reg.Default())
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	t.Run("empty name resolves default", func(t *testing.T) {
		t.Parallel()
		reg := provider.NewRegistryFromCredentials(provider.Credentials{GNewsAPIKey: "a"}, discardLogger())
		p, err := reg.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "gnews", p.Name())
	})

	t.Run("named provider resolves", func(t *testing.T) {
		t.Parallel()
		reg := provider.NewRegistryFromCredentials(provider.Credentials{GNewsAPIKey: "a", NewsDataAPIKey: "c"}, discardLogger())
		p, err := reg.Resolve("newsdata")
		require.NoError(t, err)
		assert.Equal(t, "newsdata", p.Name())
	})

	t.Run("unknown name is provider-not-found", func(t *testing.T) {
		t.Parallel()
		reg := provider.NewRegistryFromCredentials(provider.Credentials{GNewsAPIKey: "a"}, discardLogger())
		_, err := reg.Resolve("nope")
		taxErr, ok := apperr.From(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindProviderNotFound, taxErr.Kind)
		assert.Equal(t, []string{"gnews"}, taxErr.Available)
	})

	t.Run("empty registry is no-providers-available", func(t *testing.T) {
		t.Parallel()
		reg := provider.NewRegistry()
		_, err := reg.Resolve("")
		taxErr, ok := apperr.From(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindNoProviders, taxErr.Kind)
	})
}
