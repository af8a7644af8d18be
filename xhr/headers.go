package xhr

import (
	"sort"
	"strings"

	"github.com/kbukum/xhrkit/data"
)

// ParseHeaders parses a raw "name: value" header block into a map keyed
// by lower-cased name. Later lines win; a line without a colon maps its
// name to "".
func ParseHeaders(block string) map[string]string {
	headers := map[string]string{}
	lines := strings.FieldsFunc(block, func(r rune) bool { return r == '\r' || r == '\n' })
	for _, line := range lines {
		key, value, _ := strings.Cut(line, ":")
		headers[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return headers
}

// FlattenHeader joins the non-empty values with ", ".
func FlattenHeader(values data.HeaderValue) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}

// requestHeaders returns the flattened request headers sorted by name,
// omitting those with no value left.
func requestHeaders(headers data.HeadersMap) [][2]string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([][2]string, 0, len(names))
	for _, name := range names {
		if v := FlattenHeader(headers[name]); v != "" {
			out = append(out, [2]string{name, v})
		}
	}
	return out
}
