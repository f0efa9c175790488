package cookies

import (
	"net/http"
	"time"
)

// Option configures the attributes of a cookie being set or deleted.
type Option func(*http.Cookie)

// WithPath sets the cookie path. Defaults to "/".
func WithPath(path string) Option {
	return func(c *http.Cookie) {
		c.Path = path
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(c *http.Cookie) {
		c.Domain = domain
	}
}

// WithMaxAge sets the cookie Max-Age in seconds.
func WithMaxAge(seconds int) Option {
	return func(c *http.Cookie) {
		c.MaxAge = seconds
	}
}

// WithExpires sets the cookie Expires attribute.
func WithExpires(t time.Time) Option {
	return func(c *http.Cookie) {
		c.Expires = t
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(c *http.Cookie) {
		c.Secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(c *http.Cookie) {
		c.HttpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(c *http.Cookie) {
		c.SameSite = ss
	}
}

// entry is a pending write. A deletion is an entry with deleted set;
// it serializes as an expired cookie.
type entry struct {
	cookie  *http.Cookie
	deleted bool
}

// Jar tracks cookies for one request/response pair. Reads consult pending
// writes first, then the inbound request. Writes are kept in insertion
// order; rewriting the same name replaces the previous entry in place, so
// serialization never emits duplicate Set-Cookie lines for one name.
//
// Jar is not safe for concurrent use; request processing is single-flighted
// per request by design.
type Jar struct {
	inbound map[string]string
	order   []string
	entries map[string]*entry
}

// New creates a jar seeded with the cookies of r. A nil request yields an
// empty jar.
func New(r *http.Request) *Jar {
	j := &Jar{
		inbound: make(map[string]string),
		entries: make(map[string]*entry),
	}
	if r != nil {
		for _, c := range r.Cookies() {
			j.inbound[c.Name] = c.Value
		}
	}
	return j
}

// Get returns the current value of a cookie. Pending writes shadow the
// inbound request value; a pending deletion hides it entirely.
func (j *Jar) Get(name string) (string, bool) {
	if e, ok := j.entries[name]; ok {
		if e.deleted {
			return "", false
		}
		return e.cookie.Value, true
	}
	v, ok := j.inbound[name]
	return v, ok
}

// Has reports whether a cookie is currently visible.
func (j *Jar) Has(name string) bool {
	_, ok := j.Get(name)
	return ok
}

// Set records a cookie write.
func (j *Jar) Set(name, value string, opts ...Option) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(c)
	}
	j.put(&entry{cookie: c})
}

// Delete records a cookie removal. It serializes as an expired cookie so
// the client drops its copy.
func (j *Jar) Delete(name string, opts ...Option) {
	c := &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.MaxAge = -1
	j.put(&entry{cookie: c, deleted: true})
}

func (j *Jar) put(e *entry) {
	name := e.cookie.Name
	if _, ok := j.entries[name]; !ok {
		j.order = append(j.order, name)
	}
	j.entries[name] = e
}

// Merge folds the pending writes of other into j. Entries from other win
// over entries already present under the same name (last write wins).
// Inbound request cookies of other are not merged; they belong to the
// other jar's request.
func (j *Jar) Merge(other *Jar) {
	if other == nil || other == j {
		return
	}
	for _, name := range other.order {
		j.put(other.entries[name])
	}
}

// Dirty reports whether any writes are pending.
func (j *Jar) Dirty() bool {
	return len(j.order) > 0
}

// Headers serializes the pending writes into Set-Cookie header values,
// one per cookie name, in first-write order.
func (j *Jar) Headers() []string {
	if len(j.order) == 0 {
		return nil
	}
	out := make([]string, 0, len(j.order))
	for _, name := range j.order {
		out = append(out, j.entries[name].cookie.String())
	}
	return out
}

// WriteTo adds the jar's Set-Cookie headers to h.
func (j *Jar) WriteTo(h http.Header) {
	for _, line := range j.Headers() {
		h.Add("Set-Cookie", line)
	}
}
