package api

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseImageURLs(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"json array", `["http://a.jpg","http://b.jpg"]`, []string{"http://a.jpg", "http://b.jpg"}},
		{"json array drops non strings", `["http://a.jpg", 42, null, "http://b.jpg"]`, []string{"http://a.jpg", "http://b.jpg"}},
		{"json string", `"http://a.jpg"`, []string{"http://a.jpg"}},
		{"json object falls back to split", `{"url":"x"}`, []string{`{"url":"x"}`}},
		{"plain string", "http://a.jpg", []string{"http://a.jpg"}},
		{"comma separated", "http://a.jpg,http://b.jpg", []string{"http://a.jpg", "http://b.jpg"}},
		{"comma separated with spaces", "a, b ,c", []string{"a", "b", "c"}},
		{"comma separated with blanks", "a,,c,", []string{"a", "c"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseImageURLs(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parseImageURLs(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

// Encoding the parser output as a JSON array and parsing it again must
// reproduce the same list, whatever shape the input had.
func TestParseImageURLsRoundTrip(t *testing.T) {
	inputs := []string{
		`["http://a.jpg","http://b.jpg"]`,
		`"solo.png"`,
		"a, b ,c",
		"plain.jpg",
		"",
	}

	for _, raw := range inputs {
		first := parseImageURLs(raw)

		encoded, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("marshal %v: %v", first, err)
		}
		second := parseImageURLs(string(encoded))

		if !reflect.DeepEqual(first, second) {
			t.Fatalf("round trip of %q: first %v, second %v", raw, first, second)
		}
	}
}

func TestEncodeImageURLs(t *testing.T) {
	if got := string(encodeImageURLs(nil)); got != "[]" {
		t.Fatalf("encodeImageURLs(nil) = %s, want []", got)
	}
	if got := string(encodeImageURLs([]string{"a", "b"})); got != `["a","b"]` {
		t.Fatalf(`encodeImageURLs([a b]) = %s, want ["a","b"]`, got)
	}
}
