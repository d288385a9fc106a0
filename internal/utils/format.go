package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	str := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, str = "-", str[1:]
	}
	if len(str) <= 3 {
		return sign + str
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}

// FormatSeconds renders a duration as seconds with 8 decimals.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.8f", d.Seconds())
}

// FormatAverage renders a mean with trailing zeros trimmed (12.50 -> 12.5, 3.00 -> 3).
func FormatAverage(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
