package cookies_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/renderkit/pkg/cookies"
)

func TestJarGet(t *testing.T) {
	t.Parallel()

	t.Run("reads inbound request cookies", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "session", Value: "abc"})

		j := cookies.New(r)
		v, ok := j.Get("session")
		require.True(t, ok)
		assert.Equal(t, "abc", v)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()
		j := cookies.New(httptest.NewRequest(http.MethodGet, "/", nil))
		_, ok := j.Get("missing")
		assert.False(t, ok)
	})

	t.Run("nil request yields empty jar", func(t *testing.T) {
		t.Parallel()
		j := cookies.New(nil)
		assert.False(t, j.Has("anything"))
		assert.Nil(t, j.Headers())
	})

	t.Run("pending write shadows inbound value", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "theme", Value: "light"})

		j := cookies.New(r)
		j.Set("theme", "dark")

		v, ok := j.Get("theme")
		require.True(t, ok)
		assert.Equal(t, "dark", v)
	})

	t.Run("pending delete hides inbound value", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "theme", Value: "light"})

		j := cookies.New(r)
		j.Delete("theme")
		assert.False(t, j.Has("theme"))
	})
}

func TestJarHeaders(t *testing.T) {
	t.Parallel()

	t.Run("serializes with attributes", func(t *testing.T) {
		t.Parallel()
		j := cookies.New(nil)
		j.Set("session", "abc",
			cookies.WithPath("/app"),
			cookies.WithDomain("example.com"),
			cookies.WithMaxAge(3600),
			cookies.WithSecure(true),
			cookies.WithSameSite(http.SameSiteStrictMode),
		)

		headers := j.Headers()
		require.Len(t, headers, 1)
		assert.Contains(t, headers[0], "session=abc")
		assert.Contains(t, headers[0], "Path=/app")
		assert.Contains(t, headers[0], "Domain=example.com")
		assert.Contains(t, headers[0], "Max-Age=3600")
		assert.Contains(t, headers[0], "Secure")
		assert.Contains(t, headers[0], "SameSite=Strict")
	})

	t.Run("rewriting a name emits a single header", func(t *testing.T) {
		t.Parallel()
		j := cookies.New(nil)
		j.Set("a", "1")
		j.Set("b", "2")
		j.Set("a", "3")

		headers := j.Headers()
		require.Len(t, headers, 2)
		assert.True(t, strings.HasPrefix(headers[0], "a=3"))
		assert.True(t, strings.HasPrefix(headers[1], "b=2"))
	})

	t.Run("delete serializes as expired cookie", func(t *testing.T) {
		t.Parallel()
		j := cookies.New(nil)
		j.Delete("session")

		headers := j.Headers()
		require.Len(t, headers, 1)
		assert.Contains(t, headers[0], "session=")
		assert.Contains(t, headers[0], "Max-Age=0")
	})

	t.Run("WriteTo adds Set-Cookie headers", func(t *testing.T) {
		t.Parallel()
		j := cookies.New(nil)
		j.Set("a", "1")
		j.Set("b", "2")

		h := http.Header{}
		j.WriteTo(h)
		assert.Len(t, h.Values("Set-Cookie"), 2)
	})
}

func TestJarMerge(t *testing.T) {
	t.Parallel()

	t.Run("inner writes win over outer", func(t *testing.T) {
		t.Parallel()
		outer := cookies.New(nil)
		outer.Set("shared", "outer")
		outer.Set("only-outer", "1")

		inner := cookies.New(nil)
		inner.Set("shared", "inner")
		inner.Set("only-inner", "2")

		outer.Merge(inner)

		v, _ := outer.Get("shared")
		assert.Equal(t, "inner", v)

		headers := outer.Headers()
		require.Len(t, headers, 3)

		names := make([]string, 0, len(headers))
		for _, h := range headers {
			names = append(names, strings.SplitN(h, "=", 2)[0])
		}
		assert.Equal(t, []string{"shared", "only-outer", "only-inner"}, names)
	})

	t.Run("merge ignores nil and self", func(t *testing.T) {
		t.Parallel()
		j := cookies.New(nil)
		j.Set("a", "1")
		j.Merge(nil)
		j.Merge(j)
		assert.Len(t, j.Headers(), 1)
	})

	t.Run("merged deletions carry over", func(t *testing.T) {
		t.Parallel()
		outer := cookies.New(nil)
		outer.Set("session", "abc")

		inner := cookies.New(nil)
		inner.Delete("session")

		outer.Merge(inner)
		assert.False(t, outer.Has("session"))

		headers := outer.Headers()
		require.Len(t, headers, 1)
		assert.Contains(t, headers[0], "Max-Age=0")
	})
}

func TestJarDirty(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "a", Value: "1"})

	j := cookies.New(r)
	assert.False(t, j.Dirty(), "inbound cookies alone are not dirty")

	j.Set("b", "2")
	assert.True(t, j.Dirty())
}
