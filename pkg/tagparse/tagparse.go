// Package tagparse decodes ISA-style instrument loop tags such as
// "FIC-101", "PT202" or "LIC-305A" into their structured parts.
package tagparse

import (
	"regexp"
	"strings"
	"unicode"
)

// Tag is the structured decomposition of an instrument tag.
type Tag struct {
	Prefix string `json:"prefix"`           // function letters, uppercased ("FIC", "PT")
	Number string `json:"number"`           // loop number, digits kept verbatim ("007" stays "007")
	Suffix string `json:"suffix,omitempty"` // optional modifier ("A", "2")
}

// isaTagRe matches instrument loop tags: two to four function letters,
// an optional hyphen, a one-to-five digit loop number, and an optional
// short alphanumeric modifier. Single-letter prefixes are deliberately
// excluded: "P-101" or "T-23" are equipment tags, not instrument loops,
// and must stay raw.
var isaTagRe = regexp.MustCompile(`^([A-Za-z]{2,4})-?(\d{1,5})(?:-?([A-Za-z0-9]{1,4}))?$`)

// Parse decodes raw into a structured tag, or returns nil when the
// string is not an instrument loop tag. A nil result is a normal
// outcome, not a failure: callers keep the raw string as an
// unstructured tag. Parse is pure and safe for concurrent use.
func Parse(raw string) *Tag {
	m := isaTagRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil
	}
	return &Tag{
		Prefix: strings.ToUpper(m[1]),
		Number: m[2],
		Suffix: strings.ToUpper(m[3]),
	}
}

// String returns the normalized form of the tag, e.g. "FIC-101A".
// A suffix that starts with a digit is re-separated with a hyphen so it
// cannot merge into the loop number.
func (t *Tag) String() string {
	var sb strings.Builder
	sb.WriteString(t.Prefix)
	sb.WriteByte('-')
	sb.WriteString(t.Number)
	if t.Suffix != "" {
		if unicode.IsDigit(rune(t.Suffix[0])) {
			sb.WriteByte('-')
		}
		sb.WriteString(t.Suffix)
	}
	return sb.String()
}
