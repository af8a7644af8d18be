package xhr

import (
	"reflect"
	"testing"

	"github.com/kbukum/xhrkit/data"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"trims", "Content-Type:  text/html; charset=utf-8 ", map[string]string{"content-type": "text/html; charset=utf-8"}},
		{"last wins", "X-A: 1\r\nX-A: 2", map[string]string{"x-a": "2"}},
		{"colons kept", "location: http://host:8080/a\r\n", map[string]string{"location": "http://host:8080/a"}},
		{"no colon", "weird\r\n", map[string]string{"weird": ""}},
		{"blank lines", "\r\n\r\na: 1\n\nb: 2\r\r", map[string]string{"a": "1", "b": "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseHeaders(tt.block); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseHeaders(%q) = %v, want %v", tt.block, got, tt.want)
			}
		})
	}
}

func TestParseHeadersIdempotent(t *testing.T) {
	block := "Date: Mon, 02 Jan 2006 15:04:05 GMT\r\nX-A: 1\r\nx-a: 3\r\n"
	if a, b := ParseHeaders(block), ParseHeaders(block); !reflect.DeepEqual(a, b) {
		t.Errorf("%v != %v", a, b)
	}
}

func TestFlattenHeader(t *testing.T) {
	tests := []struct {
		in   data.HeaderValue
		want string
	}{
		{data.HeaderValue{"a", "b", ""}, "a, b"},
		{data.HeaderValue{"only"}, "only"},
		{data.HeaderValue{"", ""}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := FlattenHeader(tt.in); got != tt.want {
			t.Errorf("FlattenHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequestHeadersSortedAndFiltered(t *testing.T) {
	got := requestHeaders(data.HeadersMap{
		"b":     {"2"},
		"a":     {"1", "1b"},
		"empty": {""},
	})
	want := [][2]string{{"a", "1, 1b"}, {"b", "2"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("requestHeaders = %v, want %v", got, want)
	}
}
