package pricing

import (
	"testing"
	"time"

	apperrors "smartparking/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)

func TestUnits(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int64
	}{
		{time.Second, 1},
		{time.Minute, 1},
		{30 * time.Minute, 1},
		{31 * time.Minute, 2},
		{60 * time.Minute, 2},
		{90*time.Minute + time.Second, 4},
		{0, 0},
		{-time.Minute, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Units(tt.d), "duration %s", tt.d)
	}
}

func TestPrice_HalfHourQuantization(t *testing.T) {
	calc := NewCalculator()
	const rate = 5000.0

	for _, d := range []time.Duration{time.Second, time.Minute, 15 * time.Minute, 30 * time.Minute} {
		got, err := calc.Price(rate, base, base.Add(d))
		require.NoError(t, err)
		assert.Equal(t, rate/2, got, "duration %s", d)
	}

	for _, d := range []time.Duration{30*time.Minute + time.Second, 45 * time.Minute, 60 * time.Minute} {
		got, err := calc.Price(rate, base, base.Add(d))
		require.NoError(t, err)
		assert.Equal(t, rate, got, "duration %s", d)
	}

	got, err := calc.Price(rate, base, base.Add(90*time.Minute+time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2*rate, got)
}

func TestPrice_NinetyMinutes(t *testing.T) {
	got, err := NewCalculator().Price(5000, base, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 7500.0, got)
}

func TestPrice_RejectsNonPositiveDuration(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Price(5000, base, base)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))

	_, err = calc.Price(5000, base, base.Add(-time.Hour))
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))
}

func TestPrice_RejectsNegativeRate(t *testing.T) {
	_, err := NewCalculator().Price(-1, base, base.Add(time.Hour))
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))
}

func TestExtensionPrice_IsAdditive(t *testing.T) {
	calc := NewCalculator()

	// 45 extra minutes are two units on their own, even though 90+45 minutes
	// would only be five units when priced as a whole.
	delta, err := calc.ExtensionPrice(5000, 45*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, delta)

	initial, err := calc.Price(5000, base, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 12500.0, initial+delta)

	_, err = calc.ExtensionPrice(5000, 0)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.KindOf(err))
}

func TestPrice_RoundsToCents(t *testing.T) {
	got, err := NewCalculator().Price(3.3333, base, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1.67, got)
}
