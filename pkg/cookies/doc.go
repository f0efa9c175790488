// Package cookies provides a per-request cookie jar for the render core.
//
// A Jar is created from the inbound request and collects every Set/Delete
// performed during handler and middleware execution. The pending operations
// are serialized into Set-Cookie headers exactly once, when the final
// response is assembled. Jars produced by nested renders can be merged into
// an outer jar with last-write-wins semantics per cookie name, so a single
// outer response always reflects all cookies set across nested rewrites.
package cookies
