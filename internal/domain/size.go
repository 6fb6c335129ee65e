package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	KB int64 = 1024
	MB int64 = 1024 * KB
)

// Megabytes is a size in hundredths of a megabyte.
// Keeping the rounded value as an integer makes totals exact.
type Megabytes int64

// MegabytesFromBytes rounds bytes to two decimal places of a megabyte,
// half away from zero. Negative input is treated as zero.
func MegabytesFromBytes(bytes int64) Megabytes {
	if bytes <= 0 {
		return 0
	}
	// Split to keep bytes*100 from overflowing on huge tables.
	whole := bytes / MB
	rem := bytes % MB
	return Megabytes(whole*100 + (rem*100+MB/2)/MB)
}

// maxFloatMegabytes is the largest float figure that fits in hundredths.
const maxFloatMegabytes = float64(math.MaxInt64 / 100)

// MegabytesFromFloat converts a decimal megabyte figure, rounding half up
// on its shortest decimal form so 1.005 becomes 1.01. Values too large to
// represent saturate; NaN and negatives are zero.
func MegabytesFromFloat(mb float64) Megabytes {
	if math.IsNaN(mb) || mb <= 0 {
		return 0
	}
	if mb >= maxFloatMegabytes {
		return Megabytes(math.MaxInt64)
	}

	whole, frac, _ := strings.Cut(strconv.FormatFloat(mb, 'f', -1, 64), ".")
	w, _ := strconv.ParseInt(whole, 10, 64)
	frac += "000"
	h, _ := strconv.ParseInt(frac[:2], 10, 64)

	v := w*100 + h
	if frac[2] >= '5' {
		v++
	}
	return Megabytes(v)
}

// Hundredths returns the raw value.
func (m Megabytes) Hundredths() int64 {
	return int64(m)
}

// Whole returns the integer part in megabytes.
func (m Megabytes) Whole() int64 {
	return int64(m) / 100
}

// Fraction returns the two decimal digits after the point.
func (m Megabytes) Fraction() int64 {
	return int64(m) % 100
}

// Float64 returns the size as a float, for display or metrics.
func (m Megabytes) Float64() float64 {
	return float64(m) / 100
}

// String formats the size with exactly two decimals, e.g. "5.00".
func (m Megabytes) String() string {
	return fmt.Sprintf("%d.%02d", m.Whole(), m.Fraction())
}

// MarshalJSON encodes the size as a number with two decimals.
func (m Megabytes) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON decodes a decimal megabyte number.
func (m *Megabytes) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("%w: size %q", ErrInvalidInput, data)
	}
	*m = MegabytesFromFloat(f)
	return nil
}
