package insights

import (
	"math"
	"strconv"
)

// Percent is a share rounded to one decimal. The zero value means
// "no percentage" and encodes as JSON null.
type Percent struct {
	value float64
	valid bool
}

// FormatPercent returns count/total as a percentage rounded to one decimal.
// Exact ties round up, matching toFixed(1). A zero total yields an invalid
// Percent instead of dividing.
func FormatPercent(count, total int) Percent {
	if total == 0 {
		return Percent{}
	}
	return Percent{value: roundTenth(float64(count) / float64(total) * 100), valid: true}
}

func roundTenth(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)

	// strconv breaks exact ties to even; only quarters can be exact ties
	if scaled := v * 10; v*4 == math.Trunc(v*4) && math.Abs(scaled-math.Trunc(scaled)) == 0.5 {
		r = math.Floor(scaled+0.5) / 10
	}
	return r
}

// String renders the percentage, dropping a ".0" on whole numbers
func (p Percent) String() string {
	if !p.valid {
		return "null"
	}
	if p.value == math.Trunc(p.value) {
		return strconv.FormatInt(int64(p.value), 10)
	}
	return strconv.FormatFloat(p.value, 'f', -1, 64)
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}
