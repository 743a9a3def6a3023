package translate

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// maxMessageRunes bounds the message body accepted by the ingest service.
const maxMessageRunes = 8192

// scrub prepares message text for transmission: invalid byte sequences are
// replaced, the text is brought to composed unicode form, and the length is
// capped. Stack traces and fingerprints are never scrubbed.
func scrub(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	return truncate(s, maxMessageRunes)
}

// truncate cuts s to at most max runes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := 0
	for i := range s {
		if runes == max {
			return s[:i] + "..."
		}
		runes++
	}
	return s
}
