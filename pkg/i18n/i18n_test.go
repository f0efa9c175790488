package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/renderkit/pkg/i18n"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		cfg := &i18n.Config{
			DefaultLocale: "en",
			Locales:       []string{"en", "pl", "de"},
			Strategy:      i18n.StrategyPrefixOtherLocales,
		}
		require.NoError(t, cfg.Validate())
	})

	t.Run("no locales", func(t *testing.T) {
		t.Parallel()
		cfg := &i18n.Config{DefaultLocale: "en", Strategy: i18n.StrategyManual}
		assert.ErrorIs(t, cfg.Validate(), i18n.ErrNoLocales)
	})

	t.Run("default not in list", func(t *testing.T) {
		t.Parallel()
		cfg := &i18n.Config{
			DefaultLocale: "fr",
			Locales:       []string{"en", "pl"},
			Strategy:      i18n.StrategyManual,
		}
		assert.ErrorIs(t, cfg.Validate(), i18n.ErrUnknownDefault)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		t.Parallel()
		cfg := &i18n.Config{
			DefaultLocale: "en",
			Locales:       []string{"en"},
			Strategy:      "whatever",
		}
		assert.ErrorIs(t, cfg.Validate(), i18n.ErrUnknownStrategy)
	})
}

func TestPreferred(t *testing.T) {
	t.Parallel()

	available := []string{"en", "pl", "de"}

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"exact match", "pl", "pl"},
		{"quality ordering", "de;q=0.8,pl;q=0.9", "pl"},
		{"region narrows to base", "en-US,en;q=0.9", "en"},
		{"no match", "ja", ""},
		{"empty header", "", ""},
		{"garbage header", ";;;", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, i18n.Preferred(tt.header, available))
		})
	}
}

func TestPreferredList(t *testing.T) {
	t.Parallel()

	t.Run("ordered by quality without duplicates", func(t *testing.T) {
		t.Parallel()
		got := i18n.PreferredList("en-US,en;q=0.9,pl;q=0.8", []string{"en", "pl", "de"})
		assert.Equal(t, []string{"en", "pl"}, got)
	})

	t.Run("unsupported tags are skipped", func(t *testing.T) {
		t.Parallel()
		got := i18n.PreferredList("ja,pl;q=0.5", []string{"en", "pl"})
		assert.Equal(t, []string{"pl"}, got)
	})

	t.Run("no available locales", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, i18n.PreferredList("en", nil))
	})
}

func TestPathLocale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pathname  string
		available []string
		want      string
	}{
		{"prefix match", "/pl/blog", []string{"en", "pl"}, "pl"},
		{"case insensitive", "/PL/blog", []string{"en", "pl"}, "pl"},
		{"base language matches region", "/en/about", []string{"en-US", "pl"}, "en-US"},
		{"no locale segment", "/blog/post", []string{"en", "pl"}, ""},
		{"root path", "/", []string{"en"}, ""},
		{"empty path", "", []string{"en"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, i18n.PathLocale(tt.pathname, tt.available))
		})
	}
}
