package usecase

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders n with thousands separators
func FormatAmount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// FormatRupees renders an amount as an API currency string, e.g. "₹1,499"
func FormatRupees(n int) string {
	return "₹" + FormatAmount(n)
}
