package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/slices"
)

var (
	RgxDigits   = regexp.MustCompile(`^[0-9]+$`)
	RgxUsername = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MinRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// MaxBytes bounds the encoded length, which is what bcrypt limits.
func MaxBytes(value string, n int) bool {
	return len(value) <= n
}

func Between[T int | float64](value, min, max T) bool {
	return value >= min && value <= max
}

func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

func In[T comparable](value T, safelist ...T) bool {
	return slices.Contains(safelist, value)
}

// Digits reports whether value is exactly n decimal digits.
func Digits(value string, n int) bool {
	return len(value) == n && RgxDigits.MatchString(value)
}

// ThaiIDCard checks the 13-digit national ID including its mod-11 check digit.
func ThaiIDCard(value string) bool {
	if !Digits(value, 13) {
		return false
	}

	sum := 0
	for i := 0; i < 12; i++ {
		sum += int(value[i]-'0') * (13 - i)
	}

	check := (11 - sum%11) % 10
	return check == int(value[12]-'0')
}
