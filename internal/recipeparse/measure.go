package recipeparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const fractionTolerance = 0.01

type fractionEntry struct {
	decimal string
	value   float64
	text    string
}

func buildFractionTable(pairs [][2]string) []fractionEntry {
	table := make([]fractionEntry, 0, len(pairs))
	for _, p := range pairs {
		v, err := strconv.ParseFloat(p[0], 64)
		if err != nil {
			panic(fmt.Sprintf("bad fraction table entry %q: %v", p[0], err))
		}
		table = append(table, fractionEntry{decimal: p[0], value: v, text: p[1]})
	}
	return table
}

// decimalFractions covers eighths, quarters and thirds up to 4.5.
var decimalFractions = buildFractionTable([][2]string{
	{"0.125", "1/8"},
	{"0.25", "1/4"},
	{"0.33", "1/3"},
	{"0.333", "1/3"},
	{"0.375", "3/8"},
	{"0.5", "1/2"},
	{"0.625", "5/8"},
	{"0.66", "2/3"},
	{"0.67", "2/3"},
	{"0.667", "2/3"},
	{"0.75", "3/4"},
	{"0.875", "7/8"},
	{"1.25", "1 1/4"},
	{"1.33", "1 1/3"},
	{"1.5", "1 1/2"},
	{"1.67", "1 2/3"},
	{"1.75", "1 3/4"},
	{"2.25", "2 1/4"},
	{"2.33", "2 1/3"},
	{"2.5", "2 1/2"},
	{"2.67", "2 2/3"},
	{"2.75", "2 3/4"},
	{"3.25", "3 1/4"},
	{"3.5", "3 1/2"},
	{"3.75", "3 3/4"},
	{"4.25", "4 1/4"},
	{"4.5", "4 1/2"},
})

var remainderFractions = buildFractionTable([][2]string{
	{"0.25", "1/4"},
	{"0.5", "1/2"},
	{"0.75", "3/4"},
	{"0.33", "1/3"},
	{"0.333", "1/3"},
	{"0.67", "2/3"},
	{"0.667", "2/3"},
})

// units that are counted rather than measured
var discreteUnits = map[string]string{
	"dash": "dash", "dashes": "dash",
	"drop": "drop", "drops": "drop",
	"slice": "slice", "slices": "slice",
	"wedge": "wedge", "wedges": "wedge",
}

var pluralUnits = map[string]string{
	"dash":  "dashes",
	"drop":  "drops",
	"slice": "slices",
	"wedge": "wedges",
}

// FormatMeasurement renders an amount and unit, turning decimal amounts into
// bar-friendly fractions and pluralizing counted units.
func FormatMeasurement(amount, unit string) string {
	qty := strings.TrimSpace(FormatQuantity(amount))
	u := strings.TrimSpace(PluralizeUnit(amount, unit))
	switch {
	case u == "":
		return qty
	case qty == "":
		return u
	default:
		return qty + " " + u
	}
}

// FormatQuantity converts a decimal amount to a fraction or whole number.
// Anything it cannot convert exactly is returned unchanged.
func FormatQuantity(amount string) string {
	s := strings.TrimSpace(amount)
	if s == "" || strings.ContainsAny(s, "/ \t") {
		return amount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return amount
	}

	for _, f := range decimalFractions {
		if f.decimal == s {
			return f.text
		}
	}
	if text, ok := nearestFraction(decimalFractions, v); ok {
		return text
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	whole, rem := math.Modf(v)
	if text, ok := nearestFraction(remainderFractions, rem); ok {
		if whole == 0 {
			return text
		}
		return strconv.FormatFloat(whole, 'f', -1, 64) + " " + text
	}
	return amount
}

func nearestFraction(table []fractionEntry, v float64) (string, bool) {
	best := ""
	bestDiff := math.Inf(1)
	for _, f := range table {
		d := math.Abs(f.value - v)
		if d <= fractionTolerance+1e-9 && d < bestDiff {
			best, bestDiff = f.text, d
		}
	}
	return best, best != ""
}

// PluralizeUnit picks the singular or plural spelling of counted units
// (dash, drop, slice, wedge). Other units are returned as given.
func PluralizeUnit(amount, unit string) string {
	base, ok := discreteUnits[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return unit
	}
	n, ok := numericAmount(amount)
	if !ok {
		return unit
	}
	if n == 1 {
		return base
	}
	return pluralUnits[base]
}

// numericAmount evaluates amounts like "2", "0.5", "1/2", "1 1/2" and "a".
func numericAmount(amount string) (float64, bool) {
	fields := strings.Fields(strings.ToLower(amount))
	switch len(fields) {
	case 1:
		switch fields[0] {
		case "a", "an", "one":
			return 1, true
		}
		return parseNumberToken(fields[0])
	case 2:
		whole, ok := parseNumberToken(fields[0])
		if !ok || whole != math.Trunc(whole) {
			return 0, false
		}
		frac, ok := parseNumberToken(fields[1])
		if !ok || frac >= 1 {
			return 0, false
		}
		return whole + frac, true
	default:
		return 0, false
	}
}

func parseNumberToken(tok string) (float64, bool) {
	if num, den, found := strings.Cut(tok, "/"); found {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
