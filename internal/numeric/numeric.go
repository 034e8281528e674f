// Package numeric converts Brazilian-locale decimal text ("1.234,56") into floats.
package numeric

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"cattleprices/internal/components/assert"
	"cattleprices/internal/components/telemetry"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	report_normalizer_float = "normalizer.float"
)

// strconv.ParseFloat also accepts hex floats, "NaN" and "Inf", none of which
// are prices.
var decimalRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Parse strips the thousands separators ("."), turns the decimal separator (",")
// into "." and parses what remains as a finite base 10 float.
func Parse(text string) (float64, error) {
	normalized := strings.ReplaceAll(text, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	normalized = strings.TrimSpace(normalized)

	if !decimalRegex.MatchString(normalized) {
		return 0, fmt.Errorf("parse %q: not a decimal number", text)
	}
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", text, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("parse %q: not a finite number", text)
	}
	return value, nil
}

// Normalizer is Parse with a zero fallback, failures are reported instead of returned.
type Normalizer struct {
	tel telemetry.API
}

func NewNormalizer(tel telemetry.API) Normalizer {
	assert.NotNil(tel)
	return Normalizer{tel: tel}
}

// Float returns the parsed value, or 0 if the text could not be parsed.
func (n Normalizer) Float(text string) float64 {
	value, err := Parse(text)
	if err != nil {
		n.tel.ReportWarning(report_normalizer_float, err)
		return 0
	}
	return value
}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Format renders a value back in the Brazilian locale with two decimal places.
func Format(value float64) string {
	return printer.Sprintf("%.2f", value)
}
