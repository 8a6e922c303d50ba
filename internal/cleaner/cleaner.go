// Package cleaner normalises extracted text before chunking.
//
// Provider-extracted text arrives with artefacts of the original layout:
// words hyphenated across line breaks, literal escape sequences, private
// use glyphs from bullet fonts, and irregular whitespace. Clean removes
// them so chunk boundaries fall on plain prose.
package cleaner

import "regexp"

var (
	// word-\nword -> wordword
	hyphenBreak = regexp.MustCompile(`(\w+)-\n(\w+)`)

	// Literal escape text and decoration runs left behind by extraction.
	unwanted = []*regexp.Regexp{
		regexp.MustCompile(`\\n`),
		regexp.MustCompile(`  —`),
		regexp.MustCompile(`——————————`),
		regexp.MustCompile(`—————————`),
		regexp.MustCompile(`—————`),
		regexp.MustCompile(`\\u[0-9A-Fa-f]{4}`),
		regexp.MustCompile(""),
		regexp.MustCompile(""),
	}

	// A hyphen with stray spacing between word characters.
	spacedHyphen = regexp.MustCompile(`(\w)\s*-\s*(\w)`)

	whitespace = regexp.MustCompile(`\s+`)
)

// Clean normalises raw extracted text. It is pure and total: empty input
// comes back unchanged and no input ever produces an error.
func Clean(content string) string {
	if content == "" {
		return content
	}

	content = hyphenBreak.ReplaceAllString(content, "$1$2")

	for _, re := range unwanted {
		content = re.ReplaceAllString(content, "")
	}

	content = spacedHyphen.ReplaceAllString(content, "$1-$2")
	return whitespace.ReplaceAllString(content, " ")
}
