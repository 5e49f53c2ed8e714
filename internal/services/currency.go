package services

import (
	"strconv"
	"strings"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatMinor renders an amount in minor units, e.g. 49900 INR → "₹499".
// Fractions are shown only when present.
func FormatMinor(amount int64, currency string) string {
	currency = strings.ToUpper(currency)
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	major := strconv.FormatInt(amount/100, 10)
	if minor := amount % 100; minor != 0 {
		major += "." + leftPad(strconv.FormatInt(minor, 10), 2)
	}

	if sym, ok := currencySymbols[currency]; ok {
		return sign + sym + groupThousands(major)
	}
	return sign + currency + " " + groupThousands(major)
}

func groupThousands(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return intPart + frac
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}

func leftPad(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}
