// Package cache provides the small TTL caches the render pipeline uses
// for per-route derived data: resolved head elements, component metadata,
// and other values that are expensive to compute but stable for the
// lifetime of a deploy.
//
// Two backends are provided: an in-process memory cache (the default;
// route-derived data is small and bounded by the number of routes) and a
// Redis cache for multi-instance deployments that want to share warmed
// entries. Loader layers request coalescing on top of any backend so a
// cold key is computed once even under concurrent misses.
package cache
