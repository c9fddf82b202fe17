package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// maxListValues caps lists generated from a range specification.
const maxListValues = 10000

// IntRange is an inclusive integer range "min:max:step".
type IntRange struct {
	Min  int
	Max  int
	Step int
}

// ParseIntRange parses a "min:max:step" string.
func ParseIntRange(s string) (IntRange, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return IntRange{}, fmt.Errorf("invalid range format %q: expected min:max:step", s)
	}

	vals := make([]int, 3)
	for i, name := range []string{"min", "max", "step"} {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return IntRange{}, fmt.Errorf("invalid %s value %q: %w", name, parts[i], err)
		}
		vals[i] = v
	}

	if vals[2] <= 0 {
		return IntRange{}, fmt.Errorf("step must be positive, got %d", vals[2])
	}
	r := IntRange{Min: vals[0], Max: vals[1], Step: vals[2]}
	if r.Min <= r.Max && r.Max-r.Min < 0 {
		return IntRange{}, fmt.Errorf("range %q spans more than the int range", s)
	}
	if n := r.Len(); n > maxListValues {
		return IntRange{}, fmt.Errorf("range %q would generate more than %d values", s, maxListValues)
	}
	return r, nil
}

// Len returns the number of values in the range. A range whose span
// overflows int has no values.
func (r IntRange) Len() int {
	span := r.Max - r.Min
	if r.Step <= 0 || r.Min > r.Max || span < 0 {
		return 0
	}
	return span/r.Step + 1
}

// Values expands the range. An empty range yields an empty, non-nil slice.
func (r IntRange) Values() []int {
	count := r.Len()
	out := make([]int, 0, count)
	if count == 0 {
		return out
	}
	for i := 0; i < count && i < maxListValues; i++ {
		out = append(out, r.Min+i*r.Step)
	}
	return out
}

// ParseIntList parses a comma-separated list of ints or a "min:max:step"
// range. An empty string yields nil so the caller's default applies.
func ParseIntList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if strings.Contains(s, ":") {
		r, err := ParseIntRange(s)
		if err != nil {
			return nil, err
		}
		return r.Values(), nil
	}

	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid int '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
