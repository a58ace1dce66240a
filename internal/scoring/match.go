package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// unmatchedChoiceScore is awarded to a non-empty answer that matches no option.
const unmatchedChoiceScore = 1

// choiceScore resolves a text answer against the options of a Choice question:
// option id, then exact display text in any language, then word-bounded
// containment on folded text, then unmatchedChoiceScore.
func choiceScore(q QuestionDefinition, answer Answer) int {
	value := strings.TrimSpace(answer.String())

	for _, opt := range q.Options {
		if opt.ID == value {
			return opt.Score
		}
	}
	for _, opt := range q.Options {
		for _, text := range opt.Text {
			if strings.TrimSpace(text) == value {
				return opt.Score
			}
		}
	}

	folded := fold(value)
	if folded != "" {
		for _, opt := range q.Options {
			for _, text := range opt.Text {
				candidate := fold(text)
				if candidate == "" {
					continue
				}
				if containsWords(candidate, folded) || containsWords(folded, candidate) {
					return opt.Score
				}
			}
		}
	}

	return unmatchedChoiceScore
}

// fold lowercases, strips diacritics and reduces punctuation to single spaces,
// so "Öffentliche Hand (Gemeinde)" becomes "offentliche hand gemeinde".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	lowered := cases.Fold().String(stripped)

	return strings.Join(strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

func containsWords(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}
