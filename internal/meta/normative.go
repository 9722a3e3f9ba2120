package meta

import (
	"regexp"
	"strings"
)

// Strength is the regulatory force of a text unit.
type Strength string

const (
	StrengthMust   Strength = "MUST"
	StrengthShould Strength = "SHOULD"
	StrengthMay    Strength = "MAY"
	StrengthNone   Strength = "NONE"
)

// strengthClass pairs an English word-boundary pattern with Korean
// phrase literals (Go's \b is ASCII-only, so Hangul terms are matched
// by containment).
type strengthClass struct {
	label   Strength
	english *regexp.Regexp
	korean  []string
}

// Classes are checked in precedence order: the first with any match
// wins, so a chunk containing both "shall" and "may" is MUST.
var strengthClasses = []strengthClass{
	{
		label:   StrengthMust,
		english: regexp.MustCompile(`(?i)\b(shall|must|require[sd]?)\b`),
		korean:  []string{"하여야 한다", "해야 한다", "해야한다", "필수", "의무"},
	},
	{
		label:   StrengthShould,
		english: regexp.MustCompile(`(?i)\b(should|recommends?|recommended|ought)\b`),
		korean:  []string{"권장", "바람직", "권고"},
	},
	{
		label:   StrengthMay,
		english: regexp.MustCompile(`(?i)\b(may|can|optional)\b`),
		korean:  []string{"할 수 있다", "가능"},
	},
}

// Classify labels one chunk's normative strength from keyword evidence.
// Matching is case-insensitive and boundary-aware, so "mayor" or
// "mustard" never trigger.
func Classify(text string) Strength {
	for _, c := range strengthClasses {
		if c.english.MatchString(text) {
			return c.label
		}
		for _, k := range c.korean {
			if strings.Contains(text, k) {
				return c.label
			}
		}
	}
	return StrengthNone
}
