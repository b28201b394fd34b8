package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearTicks(t *testing.T) {
	scale := TimeScale{Domain: TimeRange{Min: date(2016, 1, 1), Max: date(2019, 11, 1)}, From: 0, To: 1000}

	ticks := YearTicks(scale)
	require.Len(t, ticks, 4)
	assert.Equal(t, "2016", ticks[0].Label)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Equal(t, "2019", ticks[3].Label)

	scale.Domain.Min = date(2016, 2, 1)
	ticks = YearTicks(scale)
	require.Len(t, ticks, 3)
	assert.Equal(t, "2017", ticks[0].Label)
}

func TestValueTicks(t *testing.T) {
	scale := LinearScale{Domain: ValueRange{Min: 0, Max: 12345}, From: 390, To: 0}

	ticks := ValueTicks(scale, 10)
	require.Len(t, ticks, 13)
	assert.Equal(t, "0k", ticks[0].Label)
	assert.Equal(t, 390.0, ticks[0].Value)
	assert.Equal(t, "12k", ticks[12].Label)
	for i := 1; i < len(ticks); i++ {
		assert.Less(t, ticks[i].Value, ticks[i-1].Value)
	}
}

func TestNiceTicks(t *testing.T) {
	tt := []struct {
		name        string
		start, stop float64
		expected    []float64
	}{
		{"unit", 0, 1, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}},
		{"fives", 0, 40000, []float64{0, 5000, 10000, 15000, 20000, 25000, 30000, 35000, 40000}},
		{"twos", 0, 18, []float64{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}},
		{"single", 7, 7, []float64{7}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			ticks := niceTicks(tc.start, tc.stop, 10)
			require.Len(t, ticks, len(tc.expected))
			for i := range ticks {
				assert.InDelta(t, tc.expected[i], ticks[i], 1e-9)
			}
		})
	}

	assert.Nil(t, niceTicks(0, 10, 0))
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0k", FormatThousands(0))
	assert.Equal(t, "1k", FormatThousands(500))
	assert.Equal(t, "3k", FormatThousands(2500))
	assert.Equal(t, "15k", FormatThousands(15000))
}
