package daterange

import (
	"strconv"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	perr "timeslider/internal/platform/errors"
)

// ParseYear strictly parses an integer year such as "1850" or "-400"
func ParseYear(field, s string) (Year, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, perr.InvalidOptionf(field, "%s %q is not an integer year", field, s)
	}
	return y, nil
}

// ParseRange strictly parses "lo,hi"
func ParseRange(field, s string) (Range, error) {
	lo, hi, ok := strings.Cut(s, ",")
	if !ok {
		return Range{}, perr.InvalidOptionf(field, "%s %q is not two integers", field, s)
	}
	l, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Range{}, perr.InvalidOptionf(field, "%s %q is not two integers", field, s)
	}
	u, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return Range{}, perr.InvalidOptionf(field, "%s %q is not two integers", field, s)
	}
	return Range{Lower: l, Upper: u}, nil
}

// CoerceYear reads a year the way a number input hands it over: leading
// blanks and an optional sign, then digits up to the first non-digit.
// Fullwidth digits and the unicode minus sign are folded first.
// "1850", " 1850.7", "+12", "１８５０" all parse; "", "abc", "-" do not.
func CoerceYear(s string) (Year, bool) {
	s = fold(s)
	s = strings.TrimLeft(s, " \t\n\r\f\v")

	i, neg := 0, false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[start:i])
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

var minusSigns = strings.NewReplacer("−", "-", "‒", "-", "–", "-")

func fold(s string) string {
	out, _, err := transform.String(transform.Chain(norm.NFKC, width.Fold), s)
	if err != nil {
		out = s
	}
	return minusSigns.Replace(out)
}
