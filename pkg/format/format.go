// Package format renders amounts and dates the way the web client
// shows them: Indonesian locale, whole-rupiah amounts.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Indonesian)

// Currency formats a whole-rupiah amount, e.g. 50000 -> "Rp50.000".
func Currency(amount int64) string {
	return printer.Sprintf("Rp%v", number.Decimal(amount))
}

var monthShort = [...]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Okt", "Nov", "Des",
}

// Date formats like "2 Mar 2024".
func Date(value time.Time) string {
	return fmt.Sprintf("%d %s %d", value.Day(), monthShort[value.Month()-1], value.Year())
}

// DateShort formats like "2 Mar".
func DateShort(value time.Time) string {
	return fmt.Sprintf("%d %s", value.Day(), monthShort[value.Month()-1])
}
