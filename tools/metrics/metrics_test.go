package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rodrigo-brito/fuelchart/chart"
	"github.com/rodrigo-brito/fuelchart/model"
)

func TestSummarize(t *testing.T) {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	group := chart.Group{
		Key: "Electric",
		Samples: []model.Sample{
			{Timestamp: start, SeriesKey: "Electric", Value: 10},
			{Timestamp: start.AddDate(0, 1, 0), SeriesKey: "Electric", Value: 20},
			{Timestamp: start.AddDate(0, 2, 0), SeriesKey: "Electric", Value: 30},
		},
	}

	summary := Summarize(group)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, start, summary.First)
	assert.Equal(t, start.AddDate(0, 2, 0), summary.Last)
	assert.Equal(t, 10.0, summary.Min)
	assert.Equal(t, 30.0, summary.Max)
	assert.InDelta(t, 20, summary.Mean, 1e-9)
	assert.InDelta(t, 10, summary.StdDev, 1e-9)
	assert.InDelta(t, 2, summary.Growth, 1e-9)

	group.Samples[0].Value = 0
	assert.Equal(t, 0.0, Summarize(group).Growth)
	assert.Equal(t, 0, Summarize(chart.Group{Key: "empty"}).Count)
}
