package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"github.com/rodrigo-brito/fuelchart/chart"
	"github.com/rodrigo-brito/fuelchart/plot"
)

// SMA 返回简单移动平均指标，color 为空时使用序列自身的颜色
func SMA(period int, color string) plot.Indicator {
	return &sma{
		Period: period,
		Color:  color,
	}
}

type sma struct {
	Period  int
	Color   string
	metrics []plot.IndicatorMetric
}

// Warmup 返回指标的预热期
func (s sma) Warmup() int {
	return s.Period
}

func (s sma) Name() string {
	return fmt.Sprintf("SMA(%d)", s.Period)
}

// Load 为每个序列计算移动平均，数据不足一个周期的序列跳过
func (s *sma) Load(groups []chart.Group) {
	s.metrics = s.metrics[:0]
	if s.Period < 1 {
		return
	}

	for _, group := range groups {
		if len(group.Samples) < s.Period {
			continue
		}

		values := talib.Sma(group.Values(), s.Period)
		metric := plot.IndicatorMetric{
			Name:      fmt.Sprintf("%s %s", group.Key, s.Name()),
			SeriesKey: group.Key,
			Color:     s.Color,
			Style:     plot.StyleDashed,
			Values:    values[s.Period-1:],
		}
		for _, sample := range group.Samples[s.Period-1:] {
			metric.Time = append(metric.Time, sample.Timestamp)
		}
		s.metrics = append(s.metrics, metric)
	}
}

func (s sma) Metrics() []plot.IndicatorMetric {
	return s.metrics
}
