// Package keys converts report column headers into canonical lower-camel-case
// attribute names, so "Order Number", "order_number" and "Order-Number_2" all
// become "orderNumber".
package keys

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize returns the lower-camel-case form of header. Every run of
// characters that is not an ASCII letter is a word boundary, and so is a
// lower-to-upper case change, which keeps Normalize idempotent on keys that
// are already camel case. It is safe for concurrent use.
func Normalize(header string) string {
	words := split(header)
	if len(words) == 0 {
		return ""
	}

	// A cases.Caser keeps state between calls and must not be shared.
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	b.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// NormalizeRow renames every key of row with Normalize. When two columns map
// to the same key the first one in header order wins.
func NormalizeRow(headers []string, row map[string]string) map[string]string {
	out, _ := normalizeRow(headers, row)
	return out
}

// NormalizeRowStrict is NormalizeRow but fails when two columns collide.
func NormalizeRowStrict(headers []string, row map[string]string) (map[string]string, error) {
	out, collisions := normalizeRow(headers, row)
	if len(collisions) > 0 {
		return out, fmt.Errorf("columns collide after normalization: %s", strings.Join(collisions, ", "))
	}
	return out, nil
}

// Headers normalizes a header row, preserving order.
func Headers(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = Normalize(h)
	}
	return out
}

func normalizeRow(headers []string, row map[string]string) (map[string]string, []string) {
	out := make(map[string]string, len(row))
	source := make(map[string]string, len(row))
	var collisions []string

	for _, h := range headers {
		v, ok := row[h]
		if !ok {
			continue
		}
		key := Normalize(h)
		if key == "" {
			continue
		}
		if prev, exists := source[key]; exists {
			if prev != h {
				collisions = append(collisions, fmt.Sprintf("%q and %q -> %s", prev, h, key))
			}
			continue
		}
		source[key] = h
		out[key] = v
	}
	return out, collisions
}

// split breaks s into words of ASCII letters.
func split(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !isASCIILetter(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && isASCIILetter(runes[i+1]) && unicode.IsLower(runes[i+1])
			// "orderNumber" splits before N; "HTTPServer" splits before S.
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
