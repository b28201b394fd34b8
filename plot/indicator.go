package plot

import (
	"time"

	"github.com/rodrigo-brito/fuelchart/chart"
	"github.com/rodrigo-brito/fuelchart/model"
)

// 指标线型
const (
	StyleDashed = "dashed"
	StyleDotted = "dotted"
	StyleSolid  = "solid"
)

// Indicator 叠加在折线图上的指标
// Indicator is an overlay computed from the chart series
type Indicator interface {
	Name() string
	Warmup() int // samples needed before the first value, the indicator is skipped when no series is that long
	Load(groups []chart.Group)
	Metrics() []IndicatorMetric
}

// IndicatorMetric 指标中的一条折线
type IndicatorMetric struct {
	Name      string
	SeriesKey string
	Color     string // empty uses the color of SeriesKey
	Style     string // StyleDashed, StyleDotted or StyleSolid
	Values    model.Series[float64]
	Time      []time.Time
}
