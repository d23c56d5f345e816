// Package valueobjects contains immutable value types for the purchase domain.
package valueobjects

import (
	"fmt"
	"strings"
)

// supportedCurrencies is the set of ISO 4217 codes the store sells in.
var supportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"JPY": true,
	"KRW": true,
	"CNY": true,
	"BRL": true,
}

// Money represents a monetary amount in minor units of a currency.
type Money struct {
	amountInCents int64
	currency      string
}

// NewMoney creates a Money value. An empty currency defaults to USD.
func NewMoney(amountInCents int64, currency string) Money {
	if currency == "" {
		currency = "USD"
	}
	return Money{
		amountInCents: amountInCents,
		currency:      strings.ToUpper(currency),
	}
}

func (m Money) AmountInCents() int64 {
	return m.amountInCents
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) Equals(other Money) bool {
	return m.amountInCents == other.amountInCents && m.currency == other.currency
}

func (m Money) IsNegative() bool {
	return m.amountInCents < 0
}

// HasSupportedCurrency reports whether the currency code is one we sell in.
func (m Money) HasSupportedCurrency() bool {
	return supportedCurrencies[m.currency]
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", float64(m.amountInCents)/100.0, m.currency)
}
