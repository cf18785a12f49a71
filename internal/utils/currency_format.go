package utils

import (
	"github.com/SscSPs/arap_ledger/internal/core/domain"
)

// FormatWithCurrencyPrecision renders a minor-unit amount as plain decimal text
// with the precision of the given currency.
// Example: 90000 with USD (precision 2) returns "900.00"
// Example: 1500 with JPY (precision 0) returns "1500"
func FormatWithCurrencyPrecision(amount domain.Money, currencyCode string) string {
	return amount.StringFixed(domain.CurrencyDecimals(currencyCode))
}

// ParseWithCurrencyPrecision is the inverse of FormatWithCurrencyPrecision.
func ParseWithCurrencyPrecision(text string, currencyCode string) (domain.Money, error) {
	return domain.ParseMoney(text, domain.CurrencyDecimals(currencyCode))
}
