// Package i18n provides locale negotiation for the render core: matching
// the Accept-Language header against a configured locale list, and
// extracting locale prefixes from URL pathnames.
//
// The package only negotiates locales. Translation catalogs, formatting,
// and pluralization are out of scope; the render core exposes the resolved
// locales and leaves the rest to the application.
package i18n
