package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Value is a single cell. It keeps the raw text so categorical comparisons are
// exact, and a parsed float when the text is numeric.
type Value struct {
	raw     string
	num     float64
	numeric bool
	missing bool
}

var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// Text builds a categorical value.
func Text(s string) Value {
	return Value{raw: s, missing: missingMarkers[strings.ToLower(strings.TrimSpace(s))]}
}

// Number builds a numeric value.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{raw: "NaN", missing: true}
	}
	return Value{raw: strconv.FormatFloat(f, 'g', -1, 64), num: f, numeric: true}
}

// ParseValue classifies raw cell text. Missing markers (empty, NA, NaN, null)
// are never numeric.
func ParseValue(s string) Value {
	trimmed := strings.TrimSpace(s)
	if missingMarkers[strings.ToLower(trimmed)] {
		return Value{raw: trimmed, missing: true}
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(f, 0) {
		return Value{raw: trimmed}
	}
	return Value{raw: trimmed, num: f, numeric: true}
}

func (v Value) String() string {
	return v.raw
}

// Float returns the numeric value, or false when the cell is not numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.numeric
}

func (v Value) IsNumeric() bool {
	return v.numeric
}

func (v Value) IsMissing() bool {
	return v.missing
}

// Equal compares numerically when both sides are numbers, by raw text otherwise.
func (v Value) Equal(o Value) bool {
	if v.numeric && o.numeric {
		return v.num == o.num
	}
	return v.raw == o.raw
}
