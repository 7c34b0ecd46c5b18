package form

import (
	"regexp"
	"strings"
	"unicode"
)

// Intent is the classification of one raw input value.
type Intent int

const (
	IntentLiteral Intent = iota
	IntentSkip
	IntentAffirmative
	IntentNegative
)

// Keyword tables for both supported languages. Matching is case-insensitive
// substring, the same rule the voice pipeline has always used.
var (
	skipWords = []string{"تجاوز", "تخطي", "skip", "next"}

	affirmativeWords = []string{
		"نعم", "أجل", "حدد", "صح", "تمام",
		"yes", "check", "ok", "correct", "right",
	}
)

// Classify maps a transcript (or typed value) to exactly one intent. Skip
// words win over everything; affirmative/negative only exist for checkboxes,
// any other text on a text field is a literal value.
func Classify(input string, ft FieldType) Intent {
	t := strings.ToLower(input)
	for _, w := range skipWords {
		if strings.Contains(t, w) {
			return IntentSkip
		}
	}
	if ft == FieldCheckbox {
		if IsAffirmative(input) {
			return IntentAffirmative
		}
		return IntentNegative
	}
	return IntentLiteral
}

// IsAffirmative reports whether the input contains a yes-keyword.
func IsAffirmative(input string) bool {
	t := strings.ToLower(input)
	for _, w := range affirmativeWords {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}

// Signature labels are detected by keyword: English keywords must match on a
// word boundary (so "design" does not trip "sign"), Arabic keywords must not
// sit inside a larger word.
var (
	signatureWordsEN = []string{
		"signature", "signatures", "signed", "signhere", "sign here", "signby",
		"sign by", "signdate", "sign date", "autograph", "endorsement",
	}

	signatureWordsAR = []string{
		"توقيع", "التوقيع", "توقيعي", "توقيعك", "توقيعه", "توقيعها",
		"امضاء", "الامضاء", "امضائي", "امضاؤك", "امضاؤه", "امضاؤها",
		"اعتماد", "موافقة", "تصديق", "ختم", "الختم",
		"وقع", "يوقع", "موقع", "موقعة", "موقعه",
	}

	signaturePatternsEN = compileBoundaryPatterns(signatureWordsEN)
)

func compileBoundaryPatterns(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return out
}

// IsSignatureLabel reports whether a field label names a signature slot.
func IsSignatureLabel(label string) bool {
	if label == "" {
		return false
	}
	l := strings.ToLower(label)
	for _, re := range signaturePatternsEN {
		if re.MatchString(l) {
			return true
		}
	}
	runes := []rune(l)
	for _, w := range signatureWordsAR {
		if idx := indexRunes(runes, []rune(w)); idx >= 0 {
			before := idx == 0 || !unicode.IsLetter(runes[idx-1])
			end := idx + len([]rune(w))
			after := end >= len(runes) || !unicode.IsLetter(runes[end])
			if before && after {
				return true
			}
		}
	}
	return false
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
