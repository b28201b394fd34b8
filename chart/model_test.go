package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodrigo-brito/fuelchart/model"
)

func fuelDataset() model.Dataset {
	return model.Dataset{
		{Timestamp: date(2020, 1, 1), SeriesKey: "Petrol", Value: 1500},
		{Timestamp: date(2020, 1, 1), SeriesKey: "Electric", Value: 12},
		{Timestamp: date(2020, 2, 1), SeriesKey: "Petrol", Value: 1200},
		{Timestamp: date(2020, 2, 1), SeriesKey: "Electric", Value: 30},
		{Timestamp: date(2020, 3, 1), SeriesKey: "Petrol", Value: 1100},
		{Timestamp: date(2020, 3, 1), SeriesKey: "Electric", Value: 45.5},
	}
}

func TestNew(t *testing.T) {
	t.Run("empty dataset", func(t *testing.T) {
		_, err := New(nil, model.DefaultSettings())
		require.ErrorIs(t, err, model.ErrEmptyDataset)
	})

	t.Run("invalid settings", func(t *testing.T) {
		settings := model.DefaultSettings()
		settings.Width = 100
		_, err := New(fuelDataset(), settings)
		require.ErrorIs(t, err, model.ErrInvalidSettings)
	})

	t.Run("end to end", func(t *testing.T) {
		m, err := New(fuelDataset(), model.DefaultSettings())
		require.NoError(t, err)

		groups := m.Groups()
		require.Len(t, groups, 2)
		assert.Equal(t, "Petrol", groups[0].Key)
		assert.Equal(t, "Electric", groups[1].Key)
		assert.Len(t, groups[0].Samples, 3)
		assert.Len(t, groups[1].Samples, 3)

		assert.Len(t, SamplesOnDate(m.Dataset(), date(2020, 2, 1)), 2)
		assert.Len(t, m.Dates(), 3)

		assert.Equal(t, "#4e79a7", m.Color("Petrol"))
		assert.Equal(t, "#f28e2c", m.Color("Electric"))

		timeRange, valueRange := m.Domains()
		assert.Equal(t, date(2020, 1, 1), timeRange.Min)
		assert.Equal(t, 1500.0, valueRange.Max)
		assert.InDelta(t, 1220, m.Scales().X.Scale(timeRange.Max), 1e-9)
		assert.InDelta(t, 390, m.Scales().Y.Scale(0), 1e-9)
	})
}

func TestModel_PointerMove(t *testing.T) {
	m, err := New(fuelDataset(), model.DefaultSettings())
	require.NoError(t, err)
	scales := m.Scales()

	t.Run("exact position", func(t *testing.T) {
		x := scales.X.Scale(date(2020, 2, 1))
		tooltip := m.PointerMove(x)

		require.True(t, tooltip.Visible)
		assert.Equal(t, date(2020, 2, 1), tooltip.Date)
		assert.Equal(t, "Feb 2020", tooltip.Label)
		assert.InDelta(t, x, tooltip.GuideX, 1e-9)
		assert.InDelta(t, x+100, tooltip.Left, 1e-9)
		assert.InDelta(t, scales.Y.Scale(1200)+50, tooltip.Top, 1e-9)
		assert.Equal(t,
			"<strong>Feb 2020</strong><br><strong>Petrol:</strong> 1,200<br><strong>Electric:</strong> 30<br>",
			tooltip.HTML)
		require.Len(t, tooltip.Entries, 2)
		assert.Equal(t, TooltipEntry{SeriesKey: "Electric", Value: 30, Color: "#f28e2c"}, tooltip.Entries[1])
	})

	t.Run("snaps to the nearest date", func(t *testing.T) {
		x := scales.X.Scale(date(2020, 2, 25))
		tooltip := m.PointerMove(x)
		assert.Equal(t, date(2020, 3, 1), tooltip.Date)
		assert.Contains(t, tooltip.HTML, "<strong>Electric:</strong> 45.5<br>")
	})

	t.Run("outside the plot area", func(t *testing.T) {
		assert.Equal(t, date(2020, 1, 1), m.PointerMove(-500).Date)
		assert.Equal(t, date(2020, 3, 1), m.PointerMove(5000).Date)
	})

	t.Run("far outside the plot area", func(t *testing.T) {
		var ds model.Dataset
		for month := date(2010, 1, 1); !month.After(date(2020, 12, 1)); month = month.AddDate(0, 1, 0) {
			ds = append(ds, model.Sample{Timestamp: month, SeriesKey: "Petrol", Value: 100})
		}
		decade, err := New(ds, model.DefaultSettings())
		require.NoError(t, err)

		for _, x := range []float64{5000, 50000, 1e6, math.Inf(1)} {
			tooltip := decade.PointerMove(x)
			assert.Equal(t, date(2020, 12, 1), tooltip.Date, "x=%v", x)
			assert.InDelta(t, 1220, tooltip.GuideX, 1e-9, "x=%v", x)
		}
		for _, x := range []float64{-1e6, math.Inf(-1)} {
			assert.Equal(t, date(2010, 1, 1), decade.PointerMove(x).Date, "x=%v", x)
		}
	})

	t.Run("leave", func(t *testing.T) {
		tooltip := m.PointerLeave()
		assert.False(t, tooltip.Visible)
		assert.Empty(t, tooltip.HTML)
	})
}

func TestModel_PointerMoveEscapesKeys(t *testing.T) {
	dataset := model.Dataset{
		{Timestamp: date(2020, 1, 1), SeriesKey: "<Petrol & Co>", Value: 10},
	}
	m, err := New(dataset, model.DefaultSettings())
	require.NoError(t, err)

	tooltip := m.PointerMove(0)
	assert.Contains(t, tooltip.HTML, "&lt;Petrol &amp; Co&gt;")
}

func TestPalette(t *testing.T) {
	colors := []string{"red", "green", "blue"}
	palette := NewPalette(colors, "a", "b", "a", "c", "d")

	assert.Equal(t, "red", palette.Color("a"))
	assert.Equal(t, "green", palette.Color("b"))
	assert.Equal(t, "blue", palette.Color("c"))
	assert.Equal(t, "red", palette.Color("d"))
	assert.Equal(t, "green", palette.Color("unknown"))
	assert.Equal(t, "", NewPalette(nil, "a").Color("a"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0", FormatValue(0))
	assert.Equal(t, "1,234,567", FormatValue(1234567))
	assert.Equal(t, "1,234.5", FormatValue(1234.5))
	assert.Equal(t, "0.333", FormatValue(1.0/3))
}
