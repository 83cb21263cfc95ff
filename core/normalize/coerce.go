package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kilianp07/footprint/core/model"
)

// Number converts a form value to a finite, non-negative float64.
//
// Coercion is silent: nil, empty strings, unparsable text, NaN, infinities
// and negative values all yield 0. This keeps a half-filled form usable and
// never produces an error.
func Number(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0
		}
		f = p
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// Integer converts a form value to a non-negative count. Strings are read
// up to the first non-digit, so "2.7" is 2 and "3 trips" is 3.
func Integer(v any) int {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		end := 0
		if end < len(s) && (s[end] == '+' || s[end] == '-') {
			end++
		}
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil || n < 0 {
			return 0
		}
		return n
	default:
		f := Number(v)
		if f > math.MaxInt32 {
			return math.MaxInt32
		}
		return int(math.Trunc(f))
	}
}

// present reports whether a field was filled in: a non-empty string, a
// non-zero number or true.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	default:
		return Number(v) != 0
	}
}

// Toggle reads a checkbox value. It accepts booleans, true/false, yes/no
// and the empty string (false).
func Toggle(field string, v any) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return false, nil
		}
		f, err := model.ParseFlag(x)
		if err != nil {
			return false, fmt.Errorf("%s: %w", field, err)
		}
		return bool(f), nil
	default:
		return false, fmt.Errorf("%w: %s has type %T", model.ErrInvalidEnumValue, field, v)
	}
}

func text(field string, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(x), nil
	default:
		return "", fmt.Errorf("%w: %s has type %T", model.ErrInvalidEnumValue, field, v)
	}
}

func carType(v any) (model.CarType, error) {
	s, err := text("car_type", v)
	if err != nil {
		return "", err
	}
	if s == "" {
		return model.CarPetrol, nil
	}
	for _, c := range model.CarTypes() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: car_type %q", model.ErrInvalidEnumValue, s)
}

func gridType(v any) (model.GridType, error) {
	s, err := text("grid_type", v)
	if err != nil {
		return "", err
	}
	if s == "" {
		return model.GridUSAverage, nil
	}
	for _, g := range model.GridTypes() {
		if strings.EqualFold(string(g), s) {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: grid_type %q", model.ErrInvalidEnumValue, s)
}

func wasteLevel(field string, v any) (model.WasteLevel, error) {
	s, err := text(field, v)
	if err != nil {
		return "", err
	}
	if s == "" {
		return model.WasteNone, nil
	}
	l, err := model.ParseWasteLevel(s)
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return l, nil
}

func flag(field string, v any) (model.Flag, error) {
	b, err := Toggle(field, v)
	return model.Flag(b), err
}
