package internal

import (
	"net/http"

	"github.com/dmitrymomot/renderkit/pkg/i18n"
)

// LocaleResolver computes per-request locale information. A pipeline without
// i18n configuration carries a nil resolver and every accessor returns zero
// values.
type LocaleResolver interface {
	// CurrentLocale derives the locale of the page being rendered, trying
	// the route pattern before the request pathname.
	CurrentLocale(routePattern, pathname string) string
	// PreferredLocale picks the best available locale for the visitor.
	PreferredLocale(r *http.Request) string
	// PreferredLocaleList ranks every acceptable available locale.
	PreferredLocaleList(r *http.Request) []string
}

// configResolver resolves locales from a static i18n config.
type configResolver struct {
	cfg i18n.Config
}

// NewLocaleResolver builds the default resolver for a validated config.
func NewLocaleResolver(cfg i18n.Config) LocaleResolver {
	return &configResolver{cfg: cfg}
}

func (cr *configResolver) CurrentLocale(routePattern, pathname string) string {
	if loc := i18n.PathLocale(routePattern, cr.cfg.Locales); loc != "" {
		return loc
	}
	if loc := i18n.PathLocale(pathname, cr.cfg.Locales); loc != "" {
		return loc
	}
	if cr.cfg.Strategy == i18n.StrategyPrefixOtherLocales {
		return cr.cfg.DefaultLocale
	}
	return ""
}

func (cr *configResolver) PreferredLocale(r *http.Request) string {
	return i18n.Preferred(r.Header.Get("Accept-Language"), cr.cfg.Locales)
}

func (cr *configResolver) PreferredLocaleList(r *http.Request) []string {
	return i18n.PreferredList(r.Header.Get("Accept-Language"), cr.cfg.Locales)
}

// localeCache memoizes resolver outcomes for one request. Each slot carries
// its own valid flag and, once filled, survives rewrites: a current locale
// read before a rewrite keeps answering for the pre-rewrite route. Callers
// rely on the stability, so a rewrite never clears these slots even though
// it clears other derived state.
type localeCache struct {
	current      cachedString
	preferred    cachedString
	preferredSet bool
	preferreds   []string
}

type cachedString struct {
	valid bool
	value string
}

func (lc *localeCache) currentLocale(res LocaleResolver, routePattern, pathname string) string {
	if lc.current.valid {
		return lc.current.value
	}
	if res != nil {
		lc.current.value = res.CurrentLocale(routePattern, pathname)
	}
	lc.current.valid = true
	return lc.current.value
}

func (lc *localeCache) preferredLocale(res LocaleResolver, r *http.Request) string {
	if lc.preferred.valid {
		return lc.preferred.value
	}
	if res != nil {
		lc.preferred.value = res.PreferredLocale(r)
	}
	lc.preferred.valid = true
	return lc.preferred.value
}

func (lc *localeCache) preferredLocaleList(res LocaleResolver, r *http.Request) []string {
	if lc.preferredSet {
		return lc.preferreds
	}
	if res != nil {
		lc.preferreds = res.PreferredLocaleList(r)
	}
	lc.preferredSet = true
	return lc.preferreds
}
