package protocol

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrMalformedFrame is matched by every *MalformedFrameError via errors.Is
var ErrMalformedFrame = errors.New("malformed frame")

const maxExcerpt = 120

// MalformedFrameError describes an inbound frame that matched no known shape
type MalformedFrameError struct {
	Reason  string
	Excerpt string
}

func newMalformed(raw []byte, format string, args ...interface{}) *MalformedFrameError {
	return &MalformedFrameError{
		Reason:  fmt.Sprintf(format, args...),
		Excerpt: excerptOf(raw),
	}
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("malformed frame: %s: %q", e.Reason, e.Excerpt)
}

func (e *MalformedFrameError) Unwrap() error {
	return ErrMalformedFrame
}

// excerptOf truncates raw to maxExcerpt bytes without splitting a rune
func excerptOf(raw []byte) string {
	if len(raw) <= maxExcerpt {
		return string(raw)
	}
	cut := maxExcerpt
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return string(raw[:cut]) + "..."
}
