package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ft    FieldType
		want  Intent
	}{
		{"skip english", "skip", FieldText, IntentSkip},
		{"skip inside sentence", "please skip this one", FieldText, IntentSkip},
		{"skip arabic", "تجاوز", FieldText, IntentSkip},
		{"skip arabic alt", "تخطي هذا الحقل", FieldCheckbox, IntentSkip},
		{"next counts as skip", "next", FieldText, IntentSkip},
		{"skip wins over affirmative", "yes skip", FieldCheckbox, IntentSkip},

		{"text field literal", "Ana Ahmed", FieldText, IntentLiteral},
		{"text field yes is still literal", "yes", FieldText, IntentLiteral},
		{"empty text literal", "", FieldText, IntentLiteral},

		{"checkbox yes", "yes", FieldCheckbox, IntentAffirmative},
		{"checkbox arabic yes", "نعم", FieldCheckbox, IntentAffirmative},
		{"checkbox arabic check", "حدد الخانة", FieldCheckbox, IntentAffirmative},
		{"checkbox case insensitive", "YES please", FieldCheckbox, IntentAffirmative},
		{"checkbox no", "no", FieldCheckbox, IntentNegative},
		{"checkbox arabic no", "لا أريد", FieldCheckbox, IntentNegative},
		{"checkbox gibberish is negative", "banana", FieldCheckbox, IntentNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input, tt.ft))
		})
	}
}

func TestIsAffirmative(t *testing.T) {
	for _, yes := range []string{"نعم", "أجل", "صح", "تمام", "yes", "ok", "correct", "right", "Check it"} {
		assert.True(t, IsAffirmative(yes), yes)
	}
	for _, no := range []string{"no", "لا", "", "maybe"} {
		assert.False(t, IsAffirmative(no), no)
	}
}

func TestIsSignatureLabel(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Signature", true},
		{"signature of applicant", true},
		{"Sign here", true},
		{"Sign Date", true},
		{"Endorsement", true},
		{"التوقيع", true},
		{"توقيع مقدم الطلب", true},
		{"الامضاء", true},
		{"ختم الشركة", true},

		// "sign" embedded in a larger word must not match.
		{"Design notes", false},
		{"Assignment", false},
		{"Designation", false},
		{"Full name", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSignatureLabel(tt.label))
		})
	}
}
