package util

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidFileName reports a name that cannot be stored.
var ErrInvalidFileName = errors.New("invalid file name")

// MaxFileNameRunes caps stored workbook names.
const MaxFileNameRunes = 120

// SanitizeFileName makes an uploaded or generated workbook name safe to use
// as the last segment of a storage key. Separators become underscores,
// control characters are dropped, and long names are shortened with the
// extension kept. Traversal and empty names are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") || !utf8.ValidString(name) {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidFileName
	}
	return truncateKeepingExt(s, MaxFileNameRunes), nil
}

func truncateKeepingExt(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	ext := ""
	if i := strings.LastIndexByte(s, '.'); i > 0 && utf8.RuneCountInString(s[i:]) < limit {
		ext = s[i:]
		s = s[:i]
	}
	runes := []rune(s)
	return string(runes[:limit-utf8.RuneCountInString(ext)]) + ext
}
