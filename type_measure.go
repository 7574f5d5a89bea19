package allocation

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Measure is the numeric size of an allocation: a slice size percentage in a
// plan, a market value in a snapshot. It is exact and may be absent (an
// aggregator row that carries no value of its own).
type Measure struct {
	value decimal.Decimal
	set   bool
}

// NewMeasure returns a set measure.
func NewMeasure[T float64 | int | int64 | decimal.Decimal](value T) Measure {
	return Measure{value: newDecimal(value), set: true}
}

// ParseMeasure parses the wire form of a measure; "" is absent.
func ParseMeasure(s string) (Measure, error) {
	if s == "" {
		return Measure{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Measure{}, fmt.Errorf("invalid measure %q: %w", s, err)
	}
	return Measure{value: d, set: true}, nil
}

func (m Measure) IsSet() bool              { return m.set }
func (m Measure) IsNegative() bool         { return m.set && m.value.IsNegative() }
func (m Measure) Equal(n Measure) bool     { return m.set == n.set && m.value.Equal(n.value) }
func (m Measure) Decimal() decimal.Decimal { return m.value }

// Add sums two measures, an absent operand counts as zero. The result is set
// if either operand is.
func (m Measure) Add(n Measure) Measure {
	return Measure{value: m.value.Add(n.value), set: m.set || n.set}
}

func (m Measure) String() string {
	if !m.set {
		return "-"
	}
	return m.value.String()
}

// MarshalJSON writes the exact decimal as a JSON number, or null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.set {
		return []byte("null"), nil
	}
	return []byte(m.value.String()), nil
}

// UnmarshalJSON accepts a JSON number, a decimal string or null.
func (m *Measure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*m = Measure{}
		return nil
	}
	if err := m.value.UnmarshalJSON(data); err != nil {
		return err
	}
	m.set = true
	return nil
}
