package i18n

import (
	"errors"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Errors.
var (
	ErrNoLocales        = errors.New("i18n: at least one locale required")
	ErrUnknownDefault   = errors.New("i18n: default locale not in locale list")
	ErrUnknownStrategy  = errors.New("i18n: unknown routing strategy")
	errMalformedLocales = errors.New("i18n: malformed locale tag")
)

// Strategy controls how locales map onto URL pathnames.
type Strategy string

const (
	// StrategyPrefixOtherLocales serves the default locale unprefixed and
	// every other locale under a /<locale>/ prefix. Paths without a locale
	// prefix resolve to the default locale.
	StrategyPrefixOtherLocales Strategy = "prefix-other-locales"

	// StrategyPrefixAlways requires a /<locale>/ prefix for every locale,
	// the default included. Paths without a prefix resolve to no locale.
	StrategyPrefixAlways Strategy = "prefix-always"

	// StrategyManual leaves locale routing to the application's own
	// middleware; path inspection yields no locale.
	StrategyManual Strategy = "manual"
)

// Config is the locale configuration consumed by the render core.
type Config struct {
	DefaultLocale string
	Locales       []string
	Strategy      Strategy
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if len(c.Locales) == 0 {
		return ErrNoLocales
	}
	if !slices.ContainsFunc(c.Locales, func(l string) bool {
		return strings.EqualFold(l, c.DefaultLocale)
	}) {
		return ErrUnknownDefault
	}
	switch c.Strategy {
	case StrategyPrefixOtherLocales, StrategyPrefixAlways, StrategyManual:
		return nil
	default:
		return ErrUnknownStrategy
	}
}

// Preferred returns the single best match for the Accept-Language header
// among the available locales, or "" when nothing matches.
func Preferred(header string, available []string) string {
	list := PreferredList(header, available)
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

// PreferredList returns the available locales the client accepts, ordered
// by the header's quality values, without duplicates. An empty or
// malformed header yields nil.
func PreferredList(header string, available []string) []string {
	if header == "" || len(available) == 0 {
		return nil
	}

	wanted, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(wanted) == 0 {
		return nil
	}

	supported, err := parseLocales(available)
	if err != nil {
		return nil
	}
	matcher := language.NewMatcher(supported)

	var out []string
	for _, tag := range wanted {
		_, idx, conf := matcher.Match(tag)
		if conf == language.No {
			continue
		}
		locale := available[idx]
		if !slices.Contains(out, locale) {
			out = append(out, locale)
		}
	}
	return out
}

// PathLocale returns the locale named by the first pathname segment, or ""
// when the segment matches no available locale. Matching is
// case-insensitive and tolerates a base-language prefix ("en" matches a
// configured "en-US" and vice versa).
func PathLocale(pathname string, available []string) string {
	segment := firstSegment(pathname)
	if segment == "" {
		return ""
	}
	for _, locale := range available {
		if strings.EqualFold(segment, locale) {
			return locale
		}
		if base(segment) == base(locale) {
			return locale
		}
	}
	return ""
}

func parseLocales(locales []string) ([]language.Tag, error) {
	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			return nil, errMalformedLocales
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func firstSegment(pathname string) string {
	for part := range strings.SplitSeq(pathname, "/") {
		if part != "" {
			return part
		}
	}
	return ""
}

func base(tag string) string {
	tag = strings.ToLower(tag)
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		return tag[:i]
	}
	return tag
}
