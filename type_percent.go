package allocation

import (
	"github.com/shopspring/decimal"
)

// Percent is a slice size in an allocation plan, 100 meaning the whole parent.
type Percent struct {
	value decimal.Decimal
}

func P[T float64 | int | int64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

func (p Percent) Equal(q Percent) bool { return p.value.Equal(q.value) }

func (p Percent) String() string {
	return p.value.StringFixed(2) + "%"
}

// Of returns the share of whole this percent represents.
func (p Percent) Of(whole decimal.Decimal) decimal.Decimal {
	return whole.Mul(p.value).Div(decimal.NewFromInt(100))
}
