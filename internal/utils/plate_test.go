package utils

import "testing"

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"legacy plain", "ABC1234", "ABC1234"},
		{"legacy lowercase", "abc1234", "ABC1234"},
		{"legacy with dash", "ABC-1234", "ABC1234"},
		{"mercosul plain", "ABC1D23", "ABC1D23"},
		{"mercosul lowercase with spaces", " abc1d23 ", "ABC1D23"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"too short", "AB1234", ""},
		{"too long", "ABCD1234", ""},
		{"letters only", "ABCDEFG", ""},
		{"digits only", "1234567", ""},
		{"bad mercosul shape", "AB1C234", ""},
		{"punctuation stripped then valid", "a.b.c-1 2 3 4", "ABC1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePlate(tt.in); got != tt.want {
				t.Errorf("NormalizePlate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
