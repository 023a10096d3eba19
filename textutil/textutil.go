// Package textutil provides the line, newline, and binary-content helpers
// shared by the differ and the patch applier.
package textutil

import (
	"strings"

	"github.com/fwojciec/codediff"
	"github.com/h2non/filetype"
)

// sniffBytes is how much of an input AssertText inspects.
const sniffBytes = 8192

// Normalize converts CRLF and lone CR terminators to LF and reports whether
// the result ends with a terminator. Empty input reports false.
func Normalize(s string) (string, bool) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s, strings.HasSuffix(s, "\n")
}

// SplitLines normalizes s and splits it into lines without terminators. The
// second result reports whether s ended with a terminator. Empty input yields
// no lines; a final terminator does not produce a trailing empty line.
func SplitLines(s string) ([]string, bool) {
	s, trailing := Normalize(s)
	if s == "" {
		return []string{}, false
	}
	if trailing {
		s = s[:len(s)-1]
	}
	return strings.Split(s, "\n"), trailing
}

// JoinLines is the inverse of SplitLines: lines joined with LF, plus a final
// LF when trailing is set. No lines always yields "".
func JoinLines(lines []string, trailing bool) string {
	if len(lines) == 0 {
		return ""
	}
	s := strings.Join(lines, "\n")
	if trailing {
		s += "\n"
	}
	return s
}

// AssertText returns a *codediff.BinaryInputError when the first 8192 bytes of
// s contain a NUL byte or when more than 30% of them are control bytes other
// than tab, LF, and CR.
func AssertText(s string) error {
	sample := s
	if len(sample) > sniffBytes {
		sample = sample[:sniffBytes]
	}
	if sample == "" {
		return nil
	}
	if strings.IndexByte(sample, 0) >= 0 {
		return binaryError("contains null bytes", sample)
	}
	control := 0
	for i := 0; i < len(sample); i++ {
		b := sample[i]
		if b < 32 && b != '\t' && b != '\n' && b != '\r' {
			control++
		}
	}
	if float64(control) > float64(len(sample))*0.3 {
		return binaryError("too many non-printable characters", sample)
	}
	return nil
}

// binaryError names the file type in the reason when its signature is
// recognised.
func binaryError(reason, sample string) error {
	if kind, _ := filetype.Match([]byte(sample)); kind != filetype.Unknown {
		reason += " (" + kind.MIME.Value + ")"
	}
	return &codediff.BinaryInputError{Reason: reason}
}

// CollapseWhitespace returns the comparison key used in whitespace-insensitive
// mode: every whitespace run replaced by a single space, then trimmed.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsSpace reports whether b is an ASCII whitespace byte.
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
