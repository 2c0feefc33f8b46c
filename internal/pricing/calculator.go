package pricing

import (
	"math"
	"time"

	apperrors "smartparking/pkg/errors"
)

// UnitDuration is the billing granularity. Any partial unit is billed in full.
const UnitDuration = 30 * time.Minute

// Calculator turns a parking duration into an amount using the site's hourly rate.
type Calculator interface {
	Price(hourlyRate float64, start, end time.Time) (float64, error)
	ExtensionPrice(hourlyRate float64, additional time.Duration) (float64, error)
}

type halfHourCalculator struct{}

func NewCalculator() Calculator {
	return halfHourCalculator{}
}

func (halfHourCalculator) Price(hourlyRate float64, start, end time.Time) (float64, error) {
	return amountFor(hourlyRate, end.Sub(start))
}

// ExtensionPrice quantizes the added duration on its own; the result is added to
// the existing total rather than recomputed against the new window.
func (halfHourCalculator) ExtensionPrice(hourlyRate float64, additional time.Duration) (float64, error) {
	return amountFor(hourlyRate, additional)
}

// Units returns the number of half-hour units billed for d, rounding up.
func Units(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	units := int64(d / UnitDuration)
	if d%UnitDuration != 0 {
		units++
	}
	return units
}

func amountFor(hourlyRate float64, d time.Duration) (float64, error) {
	if d <= 0 {
		return 0, apperrors.InvalidInput("duration must be positive")
	}
	if hourlyRate < 0 || math.IsNaN(hourlyRate) || math.IsInf(hourlyRate, 0) {
		return 0, apperrors.InvalidInput("hourly rate must be a non-negative number")
	}
	amount := float64(Units(d)) / 2.0 * hourlyRate
	return roundCents(amount), nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
