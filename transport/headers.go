package transport

import (
	"net/http"
	"sort"
	"strings"
)

// Headers collects request headers in insertion order. Names compare
// case-insensitively and a repeated name appends to the existing value.
type Headers struct {
	names  []string
	values map[string]string
}

// NewHeaders returns an empty header list.
func NewHeaders() *Headers {
	return &Headers{values: make(map[string]string)}
}

// Add sets name, combining with any previous value as "old, new".
func (h *Headers) Add(name, value string) {
	key := strings.ToLower(name)
	if prev, ok := h.values[key]; ok {
		h.values[key] = prev + ", " + value
		return
	}
	h.names = append(h.names, name)
	h.values[key] = value
}

// Get returns the combined value of name.
func (h *Headers) Get(name string) string {
	return h.values[strings.ToLower(name)]
}

// Has reports whether name was set.
func (h *Headers) Has(name string) bool {
	_, ok := h.values[strings.ToLower(name)]
	return ok
}

// Len returns the number of distinct names.
func (h *Headers) Len() int { return len(h.names) }

// Each calls fn for every header with the name as first set.
func (h *Headers) Each(fn func(name, value string)) {
	for _, name := range h.names {
		fn(name, h.values[strings.ToLower(name)])
	}
}

// Map returns the headers keyed by the name as first set.
func (h *Headers) Map() map[string]string {
	out := make(map[string]string, len(h.names))
	h.Each(func(name, value string) { out[name] = value })
	return out
}

// HeaderBlock renders response headers the way getAllResponseHeaders does:
// one "name: value\r\n" line per header, lower-cased names in sorted order,
// repeated values joined with ", ".
func HeaderBlock(h http.Header) string {
	if len(h) == 0 {
		return ""
	}
	merged := make(map[string]string, len(h))
	for name, values := range h {
		key := strings.ToLower(name)
		joined := strings.Join(values, ", ")
		if prev, ok := merged[key]; ok {
			joined = prev + ", " + joined
		}
		merged[key] = joined
	}
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(merged[name])
		b.WriteString("\r\n")
	}
	return b.String()
}
