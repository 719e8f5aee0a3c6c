package utils

import (
	"github.com/shopspring/decimal"
	"math/rand"
	"strings"
)

var hundred = decimal.NewFromInt(100)

type Formatter struct {
	// Random returns a value in [0, 1). math/rand is used when nil.
	Random func() float64
}

func (m *Formatter) random() float64 {
	if m.Random != nil {
		return m.Random()
	}

	return rand.Float64()
}

// Precision returns the number of fractional digits of an exchange formatted price.
func (m *Formatter) Precision(price string) int32 {
	split := strings.Split(strings.TrimSpace(price), ".")
	if len(split) < 2 {
		return 0
	}

	return int32(len(split[1]))
}

func (m *Formatter) Parse(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(value))
}

func (m *Formatter) FloorToPrecision(value decimal.Decimal, precision int32) decimal.Decimal {
	return value.RoundFloor(precision)
}

// ApplyPercent moves value by percent, e.g. 0.5 gives value * 1.005 and -0.006 gives value * 0.99994.
func (m *Formatter) ApplyPercent(value decimal.Decimal, percent float64) decimal.Decimal {
	ratio := decimal.NewFromInt(1).Add(decimal.NewFromFloat(percent).Div(hundred))

	return value.Mul(ratio)
}

// ApplyPercentString keeps the precision of the source price string.
func (m *Formatter) ApplyPercentString(price string, percent float64) (string, error) {
	value, err := m.Parse(price)
	if err != nil {
		return "", err
	}

	precision := m.Precision(price)

	return m.FloorToPrecision(m.ApplyPercent(value, percent), precision).StringFixed(precision), nil
}

// RandomAmount picks a uniform amount in [min, max] rounded down to cents.
func (m *Formatter) RandomAmount(min decimal.Decimal, max decimal.Decimal) decimal.Decimal {
	if max.LessThan(min) {
		min, max = max, min
	}

	spread := max.Sub(min)
	amount := min.Add(spread.Mul(decimal.NewFromFloat(m.random()))).RoundFloor(2)

	if amount.LessThan(min) {
		amount = min.RoundCeil(2)
	}
	if amount.GreaterThan(max) {
		amount = max.RoundFloor(2)
	}

	return amount
}

// RandomDiscount picks a uniform percent in [min, max] rounded down to 6 decimals.
func (m *Formatter) RandomDiscount(min float64, max float64) decimal.Decimal {
	if max < min {
		min, max = max, min
	}

	discount := decimal.NewFromFloat((max-min)*m.random() + min).RoundFloor(6)
	lower := decimal.NewFromFloat(min)
	if discount.LessThan(lower) {
		discount = lower
	}

	return discount
}

func (m *Formatter) Min(prices []decimal.Decimal) decimal.Decimal {
	if len(prices) == 0 {
		return decimal.Zero
	}

	return decimal.Min(prices[0], prices[1:]...)
}

// RandomSeconds picks a whole number of seconds in [min, max].
func (m *Formatter) RandomSeconds(min int64, max int64) int64 {
	if max < min {
		min, max = max, min
	}

	seconds := min + int64(m.random()*float64(max-min+1))
	if seconds > max {
		seconds = max
	}

	return seconds
}
