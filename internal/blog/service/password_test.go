package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidPassword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		password string
		want     bool
	}{
		{"Abc123", true},
		{"abc123", false},   // no capital
		{"ABCDEF", false},   // no digit
		{"Ab1", false},      // too short
		{"Ab1234", true},    // exactly six
		{"Abc12", false},    // five runes
		{"ÉÉÉÉ1a", false},   // capital must be A-Z
		{"Ab١٢٣٤", true},    // Arabic-Indic digits count as digits
		{"Passwörd9", true}, // multibyte, long enough
		{"", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, IsValidPassword(tc.password), "password %q", tc.password)
	}
}
