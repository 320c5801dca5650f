package storage

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxNameLen = 255

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename приводит пользовательское имя файла к безопасному виду:
// NFKD + только ASCII, разделители путей превращаются в пробелы,
// пробельные последовательности — в "_", всё вне [A-Za-z0-9_.-] удаляется,
// ведущие и хвостовые "." и "_" обрезаются.
// Пустая строка означает, что от имени ничего не осталось.
func SanitizeFilename(name string) string {
	toASCII := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	s, _, err := transform.String(toASCII, name)
	if err != nil {
		return ""
	}

	s = strings.NewReplacer("/", " ", "\\", " ").Replace(s)
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeNameChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "._")

	if len(s) > maxNameLen {
		ext := filepath.Ext(s)
		if len(ext) >= maxNameLen {
			ext = ""
		}
		s = s[:maxNameLen-len(ext)] + ext
	}
	return s
}
