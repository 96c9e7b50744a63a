package leaderboard

import (
	"encoding/json"
	"math"
	"strings"
	"unicode"
)

// NormalizeName replaces control characters with spaces, trims surrounding
// whitespace and truncates to MaxNameLength characters.
func NormalizeName(name string) string {
	name = strings.TrimSpace(strings.Map(controlToSpace, name))
	runes := []rune(name)
	if len(runes) > MaxNameLength {
		runes = runes[:MaxNameLength]
	}
	return string(runes)
}

// controlToSpace maps C0, DEL and C1 control runes to a space so stored
// names cannot carry terminal escape sequences.
func controlToSpace(r rune) rune {
	if unicode.IsControl(r) {
		return ' '
	}
	return r
}

// ClampScore floors x and clamps it to [0, math.MaxInt32].
func ClampScore(x float64) int {
	x = math.Floor(x)
	if x < 0 {
		return 0
	}
	if x > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(x)
}

// numeric converts a decoded score to float64. Only finite numbers qualify.
func numeric(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
