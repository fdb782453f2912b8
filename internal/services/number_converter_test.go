package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "Zero Riyals"},
		{7, "Seven Riyals"},
		{15, "Fifteen Riyals"},
		{42, "Forty-Two Riyals"},
		{100, "One Hundred Riyals"},
		{115, "One Hundred Fifteen Riyals"},
		{1250.50, "One Thousand Two Hundred Fifty Riyals and 50 Halalas"},
		{36000, "Thirty-Six Thousand Riyals"},
		{1_000_000, "One Million Riyals"},
		{0.25, "Zero Riyals and 25 Halalas"},
		{99.99, "Ninety-Nine Riyals and 99 Halalas"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, AmountInWords(tc.amount), "amount %v", tc.amount)
	}
}

func TestAmountInWordsNegative(t *testing.T) {
	assert.Equal(t, "Minus Fifty Riyals", AmountInWords(50 * -1))
}

func TestAmountInWordsRoundsCents(t *testing.T) {
	// 9.999 rounds to 10.00, not "9 Riyals and 100 Halalas"
	assert.Equal(t, "Ten Riyals", AmountInWords(9.999))
}
