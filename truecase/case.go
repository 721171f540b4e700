// Package truecase classifies and restores the capitalization of tokens.
//
// A token's casing is summarized as one of five classes; the Mixed class
// additionally carries a per-character pattern so that strings like
// "McDonald's" survive a round trip through classification and
// reapplication. The package also extracts the emission features a
// sequential model needs for case restoration.
package truecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shiomiya/percepgo/pkg/errors"
)

// CharCase is the casing of a single character.
type CharCase int

const (
	// CharDC covers every character without case, digits and punctuation
	// included.
	CharDC CharCase = iota
	// CharLower is a lowercase letter.
	CharLower
	// CharUpper is an uppercase letter.
	CharUpper
)

// String returns the case name.
func (c CharCase) String() string {
	switch c {
	case CharDC:
		return "DC"
	case CharLower:
		return "LOWER"
	case CharUpper:
		return "UPPER"
	default:
		return "unknown"
	}
}

// TokenCase is the casing of a whole token.
type TokenCase int

const (
	// DC marks tokens with no cased characters at all.
	DC TokenCase = iota
	// Lower marks tokens whose cased characters are all lowercase.
	Lower
	// Upper marks tokens whose cased characters are all uppercase,
	// except single capitals and the like, which Title bleeds.
	Upper
	// Title marks tokens with one initial capital followed by lowercase.
	Title
	// Mixed marks everything else; the per-character pattern disambiguates.
	Mixed

	// NumTokenCases is the label cardinality for dense-label models.
	NumTokenCases = int(Mixed) + 1
)

// String returns the case name.
func (t TokenCase) String() string {
	switch t {
	case DC:
		return "DC"
	case Lower:
		return "LOWER"
	case Upper:
		return "UPPER"
	case Title:
		return "TITLE"
	case Mixed:
		return "MIXED"
	default:
		return "unknown"
	}
}

func charCase(r rune) CharCase {
	switch {
	case unicode.Is(unicode.Ll, r):
		return CharLower
	case unicode.Is(unicode.Lu, r):
		return CharUpper
	default:
		return CharDC
	}
}

// Classify returns the casing class of a token, plus the per-character
// pattern when the class is Mixed and nil otherwise. Title beats Upper for
// tokens like "A" where both readings hold.
func Classify(token string) (TokenCase, []CharCase) {
	runes := []rune(token)
	cased := 0
	lower := 0
	upper := 0
	title := true
	runStart := true
	for _, r := range runes {
		switch charCase(r) {
		case CharLower:
			cased++
			lower++
			if runStart {
				title = false
			}
			runStart = false
		case CharUpper:
			cased++
			upper++
			if !runStart {
				title = false
			}
			runStart = false
		default:
			runStart = true
		}
	}
	switch {
	case cased == 0:
		return DC, nil
	case lower == cased:
		return Lower, nil
	case title:
		return Title, nil
	case upper == cased:
		return Upper, nil
	}
	pattern := make([]CharCase, len(runes))
	for i, r := range runes {
		pattern[i] = charCase(r)
	}
	return Mixed, pattern
}

var titleCaser = cases.Title(language.Und)

// Apply restores a casing class onto a token. Except for DC, which leaves
// the token alone, the result does not depend on the input casing. A Mixed
// class with a nil pattern falls back to lowercase; a non-nil pattern must
// cover every character of the token.
func Apply(token string, tc TokenCase, pattern []CharCase) (string, error) {
	switch tc {
	case DC:
		return token, nil
	case Lower:
		return strings.ToLower(token), nil
	case Upper:
		return strings.ToUpper(token), nil
	case Title:
		return titleCaser.String(token), nil
	case Mixed:
		if pattern == nil {
			return strings.ToLower(token), nil
		}
		runes := []rune(token)
		if len(runes) != len(pattern) {
			return "", errors.NewDimensionError("Apply", len(runes), len(pattern))
		}
		var b strings.Builder
		b.Grow(len(token))
		for i, r := range runes {
			switch pattern[i] {
			case CharLower:
				b.WriteRune(unicode.ToLower(r))
			case CharUpper:
				b.WriteRune(unicode.ToUpper(r))
			default:
				b.WriteRune(r)
			}
		}
		return b.String(), nil
	default:
		return "", errors.NewValidationError("tc", "unknown token case", int(tc))
	}
}
