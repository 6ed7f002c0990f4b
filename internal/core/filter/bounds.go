package filter

import (
	"fmt"
	"strconv"
)

// YearLabel renders a year with its sign kept and the digits padded to four
// places: 1923, 0042, -0400
func YearLabel(year int) string {
	if year < 0 {
		return fmt.Sprintf("-%04d", -year)
	}
	return fmt.Sprintf("%04d", year)
}

// Boundaries returns the widest decimal-year bounds that still fall inside year.
// Decimal dates here count the fraction forward from January 1, so year y
// covers [y, y+1) whatever its sign. For BCE years the bounds therefore sit
// just inside -399 for -400: -399.999999 and -399.000001, not the
// year+".000001" text a positive year gets.
func Boundaries(year int) (lo, hi float64) {
	if year >= 0 {
		label := YearLabel(year)
		return mustFloat(label + ".000001"), mustFloat(label + ".999999")
	}
	// |year+1| is the integer part shared by every point in [year, year+1)
	label := fmt.Sprintf("-%04d", -(year + 1))
	return mustFloat(label + ".999999"), mustFloat(label + ".000001")
}

func mustFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic("filter: bad boundary literal " + s)
	}
	return f
}
