package command

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxScriptSize is the script size limit the engine uses unless
// configured otherwise.
const DefaultMaxScriptSize = 64 << 10

var (
	ErrScriptTooLarge = errors.New("script exceeds maximum allowed size")
	ErrInvalidUTF8    = errors.New("script contains invalid UTF-8 sequences")
)

// Sanitize checks script against limit bytes (no limit when limit <= 0),
// validates UTF-8 and strips control characters other than newline, tab
// and carriage return.
func Sanitize(script string, limit int) (string, error) {
	if limit > 0 && len(script) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrScriptTooLarge, len(script), limit)
	}

	if !utf8.ValidString(script) {
		return "", ErrInvalidUTF8
	}

	if strings.IndexFunc(script, isUnsafeControl) < 0 {
		return script, nil
	}

	var b strings.Builder
	b.Grow(len(script))
	for _, r := range script {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
