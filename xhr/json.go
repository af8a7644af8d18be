package xhr

import (
	"encoding/json"
	"regexp"
	"strings"
)

// xssiPrefix is the anti-hijacking guard some APIs put before JSON.
var xssiPrefix = regexp.MustCompile(`^\)]\}',?\n`)

// ParseJSON strips the anti-hijacking prefix from text and parses the rest.
func ParseJSON(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(xssiPrefix.ReplaceAllString(text, "")), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func isJSONContentType(contentType string) bool {
	return strings.Contains(contentType, "json")
}
