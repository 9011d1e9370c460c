// Package classifier composes note classifiers: offline keyword matching, a
// hosted model, a verdict cache and a guard that never lets a failure escape.
package classifier

import (
	"strings"
	"unicode/utf8"
)

// MinNoteLength is the shortest trimmed note, in characters, worth classifying.
const MinNoteLength = 10

var stoplist = map[string]struct{}{
	"yes":          {},
	"no":           {},
	"n/a":          {},
	"na":           {},
	"i":            {},
	"none":         {},
	"nothing":      {},
	"idk":          {},
	"ok":           {},
	"not sure":     {},
	"i don't know": {},
}

// Eligible reports whether note carries enough content to send to a classifier.
func Eligible(note string) bool {
	trimmed := strings.TrimSpace(note)
	if utf8.RuneCountInString(trimmed) < MinNoteLength {
		return false
	}
	_, stop := stoplist[strings.ToLower(trimmed)]
	return !stop
}
