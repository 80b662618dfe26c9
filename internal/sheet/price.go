package sheet

import (
	"strconv"
	"strings"
)

var priceReplacer = strings.NewReplacer(",", "", "원", "", "₩", "", " ", "")

// ParsePrice reads a price cell such as "1,250,000", "-30,000원" or "₩500".
// Cells that are not purely numeric after removing separators and currency
// marks are rejected.
func ParsePrice(cell string) (float64, bool) {
	s := priceReplacer.Replace(strings.TrimSpace(cell))
	if s == "" || s == "-" || s == "+" {
		return 0, false
	}
	for i, r := range s {
		if (r == '-' || r == '+') && i == 0 {
			continue
		}
		if r != '.' && (r < '0' || r > '9') {
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
