package indicator

import (
	"fmt"
	"time"

	"github.com/markcheno/go-talib"

	"github.com/rodrigo-brito/fuelchart/chart"
	"github.com/rodrigo-brito/fuelchart/plot"
)

// BollingerBands 返回布林带指标，为每个序列画出上轨和下轨
func BollingerBands(period int, stdDeviation float64, color string) plot.Indicator {
	return &bollingerBands{
		Period:       period,
		StdDeviation: stdDeviation,
		Color:        color,
	}
}

// bollingerBands 布林带参数和计算结果
type bollingerBands struct {
	Period       int
	StdDeviation float64
	Color        string
	metrics      []plot.IndicatorMetric
}

// Warmup 返回指标需要的预热周期数
func (bb bollingerBands) Warmup() int {
	return bb.Period
}

// Name 返回指标的名称，格式为"BB(周期, 标准差)"
func (bb bollingerBands) Name() string {
	return fmt.Sprintf("BB(%d, %.2f)", bb.Period, bb.StdDeviation)
}

// Load 计算每个序列的上轨和下轨，中轨与移动平均重复，不输出
func (bb *bollingerBands) Load(groups []chart.Group) {
	bb.metrics = bb.metrics[:0]
	if bb.Period < 2 {
		return
	}

	for _, group := range groups {
		if len(group.Samples) < bb.Period {
			continue
		}

		upper, _, lower := talib.BBands(group.Values(), bb.Period, bb.StdDeviation, bb.StdDeviation, talib.SMA)
		start := bb.Period - 1
		times := make([]time.Time, 0, len(group.Samples)-start)
		for _, sample := range group.Samples[start:] {
			times = append(times, sample.Timestamp)
		}

		bb.metrics = append(bb.metrics,
			plot.IndicatorMetric{
				Name:      fmt.Sprintf("%s %s upper", group.Key, bb.Name()),
				SeriesKey: group.Key,
				Color:     bb.Color,
				Style:     plot.StyleDotted,
				Values:    upper[start:],
				Time:      times,
			},
			plot.IndicatorMetric{
				Name:      fmt.Sprintf("%s %s lower", group.Key, bb.Name()),
				SeriesKey: group.Key,
				Color:     bb.Color,
				Style:     plot.StyleDotted,
				Values:    lower[start:],
				Time:      times,
			},
		)
	}
}

// Metrics 返回上轨和下轨的折线
func (bb bollingerBands) Metrics() []plot.IndicatorMetric {
	return bb.metrics
}
