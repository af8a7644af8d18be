package transport

import (
	"bytes"
	"encoding/json"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kbukum/xhrkit/data"
)

// DecodeResponse converts a raw body into the representation rt asks for:
// string for "" and text, []byte for arraybuffer and blob, the parsed value
// (or nil) for json, and a *goquery.Document (or nil) for document.
func DecodeResponse(rt data.ResponseType, body []byte, contentType string) any {
	switch rt {
	case data.ResponseTypeArrayBuffer, data.ResponseTypeBlob:
		if body == nil {
			body = []byte{}
		}
		return body
	case data.ResponseTypeJSON:
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil
		}
		return v
	case data.ResponseTypeDocument:
		if !isMarkup(contentType) {
			return nil
		}
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil
		}
		return doc
	default:
		return string(body)
	}
}

func isMarkup(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mediaType {
	case "text/html", "text/xml", "application/xml", "application/xhtml+xml", "image/svg+xml":
		return true
	}
	return strings.HasSuffix(mediaType, "+xml")
}
