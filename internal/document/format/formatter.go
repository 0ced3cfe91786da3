// Package format renders amounts and dates for bill documents.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money formats an amount in rupees as "Rs. 1,234.00". Amounts stay in
// decimal until the final string so no value ever rounds through float64.
func Money(amount int64) string {
	d := decimal.NewFromInt(amount)
	fixed := d.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	parts := strings.SplitN(fixed, ".", 2)
	grouped := group(parts[0])

	var b strings.Builder
	b.WriteString("Rs. ")
	if neg {
		b.WriteString("-")
	}
	b.WriteString(grouped)
	b.WriteString(".")
	b.WriteString(parts[1])
	return b.String()
}

// Date formats document dates as "02 Jan 2006".
func Date(t time.Time) string {
	return t.UTC().Format("02 Jan 2006")
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
