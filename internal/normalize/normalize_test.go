package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Links(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"https t.me", "https://t.me/durov", "durov"},
		{"http telegram.me", "http://telegram.me/durov", "durov"},
		{"telegram.dog with www", "https://www.telegram.dog/durov", "durov"},
		{"bare domain", "t.me/durov", "durov"},
		{"bare telegram.me", "telegram.me/durov", "durov"},
		{"trailing path segments", "https://t.me/durov/123?single", "durov"},
		{"plus invite link", "https://t.me/+AbCd-EfGh_123", "AbCd-EfGh_123"},
		{"bare plus invite link is stripped", "t.me/+AbCdEf", "tmeAbCdEf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_HandleForms(t *testing.T) {
	// The same entity must normalize identically regardless of input form.
	want := "telegram"
	for _, input := range []string{"@telegram", "telegram", "https://t.me/telegram"} {
		got, err := Normalize(input)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNormalize_NumericAndNoise(t *testing.T) {
	got, err := Normalize(" 777000 ")
	assert.NoError(t, err)
	assert.Equal(t, "777000", got)

	got, err = Normalize("-1001234567890")
	assert.NoError(t, err)
	assert.Equal(t, "-1001234567890", got)

	// Noise characters outside the identifier alphabet are stripped.
	got, err = Normalize("dur ov!")
	assert.NoError(t, err)
	assert.Equal(t, "durov", got)
}

func TestNormalize_Rejections(t *testing.T) {
	for _, input := range []string{"", "   ", "!!!", "@"} {
		_, err := Normalize(input)
		assert.ErrorIs(t, err, ErrInvalid, "input %q", input)
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("777000"))
	assert.True(t, IsNumeric("-1001234567890"))
	assert.False(t, IsNumeric("durov"))
	assert.False(t, IsNumeric("-"))
	assert.False(t, IsNumeric("123abc"))
	assert.False(t, IsNumeric(""))
}
