package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// maxWordsAmount bounds AmountInWords to values whose rupee part fits in int64
// with room to spare; larger amounts use the numeric fallback.
const maxWordsAmount = 1e15

// NumberToWords spells num using Indian grouping (Thousand, Lakh, Crore).
// Zero and negative numbers yield an empty string.
func NumberToWords(num int64) string {
	switch {
	case num <= 0:
		return ""
	case num < 20:
		return ones[num]
	case num < 100:
		return strings.TrimSpace(tens[num/10] + " " + ones[num%10])
	case num < 1000:
		remainder := num % 100
		if remainder == 0 {
			return ones[num/100] + " Hundred"
		}
		return ones[num/100] + " Hundred " + NumberToWords(remainder)
	case num < 100000:
		remainder := num % 1000
		if remainder == 0 {
			return NumberToWords(num/1000) + " Thousand"
		}
		return NumberToWords(num/1000) + " Thousand " + NumberToWords(remainder)
	case num < 10000000:
		remainder := num % 100000
		if remainder == 0 {
			return NumberToWords(num/100000) + " Lakh"
		}
		return NumberToWords(num/100000) + " Lakh " + NumberToWords(remainder)
	default:
		remainder := num % 10000000
		if remainder == 0 {
			return NumberToWords(num/10000000) + " Crore"
		}
		return NumberToWords(num/10000000) + " Crore " + NumberToWords(remainder)
	}
}

// NumberToCurrencyWords renders amount as rupees and paise, e.g.
// "One Lakh Twenty Five Thousand Rupees and Fifty Paise Only".
func NumberToCurrencyWords(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	rupees := d.IntPart()
	paise := d.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).IntPart()

	var parts []string

	if rupees > 0 {
		parts = append(parts, fmt.Sprintf("%s Rupees", strings.TrimSpace(NumberToWords(rupees))))
	}
	if paise > 0 {
		parts = append(parts, fmt.Sprintf("%s Paise", strings.TrimSpace(NumberToWords(paise))))
	}

	if len(parts) == 0 {
		return "Zero Rupees Only"
	}

	return strings.Join(parts, " and ") + " Only"
}

// AmountInWords is NumberToCurrencyWords for invoice totals. Amounts that
// cannot be spelled (negative, NaN, infinite, too large) fall back to
// "<amount> Rupees Only" and it never panics.
func AmountInWords(amount float64) (words string) {
	fallback := FormatAmount(amount) + " Rupees Only"
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 || amount >= maxWordsAmount {
		return fallback
	}
	defer func() {
		if rec := recover(); rec != nil {
			words = fallback
		}
	}()
	return NumberToCurrencyWords(amount)
}

// FormatAmount prints an amount with two decimals.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
