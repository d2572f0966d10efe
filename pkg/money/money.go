// Package money convierte montos en unidades menores (centavos) a su representación decimal.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal convierte centavos a unidades mayores (1999 → 19.99).
func ToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// Format devuelve el monto con símbolo y separador de miles: 123456 → "$1,234.56".
func Format(minor int64) string {
	d := ToDecimal(minor)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + "$" + groupThousands(intPart) + "." + frac
}

// FormatWithCurrency igual que Format con el código ISO en mayúsculas al final.
func FormatWithCurrency(minor int64, currency string) string {
	if currency == "" {
		return Format(minor)
	}
	return Format(minor) + " " + strings.ToUpper(currency)
}

// groupThousands inserta comas cada tres dígitos: "1234567" → "1,234,567".
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
