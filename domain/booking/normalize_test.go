package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_StripsSeparators(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"spaces", "123 456", "123456"},
		{"hyphens", "KYH-7BH", "KYH7BH"},
		{"periods", "FF.99.1234", "FF991234"},
		{"mixed", " K-Y.H 7BH ", "KYH7BH"},
		{"clean input unchanged", "GCI7NE", "GCI7NE"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"KYH-7BH", "12 34.56", "abc", ""}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestNormalizeBookingReference_Uppercases(t *testing.T) {
	assert.Equal(t, "KYH7BH", NormalizeBookingReference("kyh-7bh"))
	assert.Equal(t, "GCI7NE", NormalizeBookingReference("gci 7ne"))
}

func TestNormalize_DoesNotCaseFold(t *testing.T) {
	// Frequent-flyer numbers keep their case.
	assert.Equal(t, "ab12cd", Normalize("ab-12.cd"))
}
