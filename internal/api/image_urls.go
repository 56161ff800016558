package api

import (
	"encoding/json"
	"strings"
)

// parseImageURLs normalizes the stored image_urls value into an ordered
// list of strings. Historical rows hold several encodings:
//
//	'["http://a.jpg","http://b.jpg"]'  JSON array
//	'"http://a.jpg"'                   JSON string
//	'http://a.jpg'                     plain string
//	'http://a.jpg,http://b.jpg'        comma separated
//
// A JSON array keeps only its string elements, preserving order. Anything
// that is not valid JSON (or decodes to an unexpected shape) falls back to
// a comma split with blanks dropped. Re-encoding the result as a JSON
// array and parsing it again yields the same list.
func parseImageURLs(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
		switch v := decoded.(type) {
		case []any:
			urls := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					urls = append(urls, s)
				}
			}
			return urls
		case string:
			return []string{v}
		}
	}

	parts := strings.Split(trimmed, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}

// encodeImageURLs renders the canonical stored form: a JSON array.
func encodeImageURLs(urls []string) []byte {
	if urls == nil {
		urls = []string{}
	}
	encoded, _ := json.Marshal(urls)
	return encoded
}
