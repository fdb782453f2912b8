package services

import (
	"fmt"
	"math"
	"strings"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords spells out a monetary amount for printed receipts,
// e.g. 1250.50 -> "One Thousand Two Hundred Fifty Riyals and 50 Halalas".
func AmountInWords(amount float64) string {
	if amount < 0 {
		return "Minus " + AmountInWords(-amount)
	}

	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	words := "Zero"
	if whole > 0 {
		words = numberToWords(whole)
	}

	result := words + " Riyals"
	if cents > 0 {
		result += fmt.Sprintf(" and %d Halalas", cents)
	}
	return result
}

func numberToWords(n int64) string {
	if n == 0 {
		return ""
	}

	var parts []string
	scales := []struct {
		value int64
		name  string
	}{
		{1_000_000_000, "Billion"},
		{1_000_000, "Million"},
		{1_000, "Thousand"},
	}

	for _, scale := range scales {
		if n >= scale.value {
			parts = append(parts, numberToWords(n/scale.value), scale.name)
			n %= scale.value
		}
	}

	if n >= 100 {
		parts = append(parts, onesWords[n/100], "Hundred")
		n %= 100
	}

	if n >= 20 {
		word := tensWords[n/10]
		if n%10 > 0 {
			word += "-" + onesWords[n%10]
		}
		parts = append(parts, word)
	} else if n > 0 {
		parts = append(parts, onesWords[n])
	}

	return strings.Join(parts, " ")
}
