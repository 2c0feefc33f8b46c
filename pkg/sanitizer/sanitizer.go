package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reNotLabel     = regexp.MustCompile(`[^0-9A-Z]+`)
	reWhitespace   = regexp.MustCompile(`\s+`)
	reLeadingZeros = regexp.MustCompile(`^([A-Z]+)0+([1-9][0-9]*)$`)
)

func trimAndUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func dropSeparators(s string) string {
	return reNotLabel.ReplaceAllString(s, "")
}

// SanitizeSlotNumber turns " a-01 " into "A1".
func SanitizeSlotNumber(input string) string {
	p := Pipeline{
		trimAndUpper,
		dropSeparators,
		func(s string) string { return reLeadingZeros.ReplaceAllString(s, "${1}${2}") },
	}
	return p.Apply(input)
}

// SanitizePlate turns "01 a 123-bc" into "01A123BC".
func SanitizePlate(input string) string {
	p := Pipeline{
		trimAndUpper,
		dropSeparators,
	}
	return p.Apply(input)
}

// SanitizeText trims, collapses runs of whitespace and drops control characters.
func SanitizeText(input string) string {
	p := Pipeline{
		func(s string) string {
			return strings.Map(func(r rune) rune {
				if unicode.IsControl(r) && !unicode.IsSpace(r) {
					return -1
				}
				return r
			}, s)
		},
		func(s string) string { return reWhitespace.ReplaceAllString(s, " ") },
		strings.TrimSpace,
	}
	return p.Apply(input)
}
