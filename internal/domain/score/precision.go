package score

import (
	"strconv"
	"sync"
)

// Published profile values are rounded to two decimals. An exact report
// average is total/13 or total/14 (one attribute commonly not observed),
// so the rounded value usually identifies a single fraction.
var precisionDenominators = []int{13, 14}

var (
	precisionOnce  sync.Once
	precisionTable map[string]float64
)

func buildPrecisionTable() {
	precisionTable = make(map[string]float64)
	// Later denominators overwrite earlier ones; 14 is the full vector.
	for _, denom := range precisionDenominators {
		for total := int(Min) * denom; total <= int(Max)*denom; total++ {
			exact := float64(total) / float64(denom)
			precisionTable[roundedKey(exact)] = exact
		}
	}
}

func roundedKey(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Precise maps a two-decimal value back to the exact average it was rounded
// from. Values that no average rounds to are returned unchanged.
func Precise(v float64) float64 {
	precisionOnce.Do(buildPrecisionTable)
	if exact, ok := precisionTable[roundedKey(v)]; ok {
		return exact
	}
	return v
}

// PrecisionEntries returns the number of known rounded values.
func PrecisionEntries() int {
	precisionOnce.Do(buildPrecisionTable)
	return len(precisionTable)
}
