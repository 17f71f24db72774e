package rdf

import "strings"

// FormatInteger renders value left-padded with pad to at least width
// characters, the sign counting toward width when value is negative
// (spec §8: format_integer(-42, width=5, pad='0') → "-0042").
func FormatInteger(value int64, width int, pad rune) string {
	neg := value < 0
	if neg {
		value = -value
	}
	digits := int64ToString(value)
	sign := ""
	if neg {
		sign = "-"
	}
	need := width - len(sign) - len(digits)
	if need > 0 {
		digits = strings.Repeat(string(pad), need) + digits
	}
	return sign + digits
}

func int64ToString(v int64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
