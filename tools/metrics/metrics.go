package metrics

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/rodrigo-brito/fuelchart/chart"
)

// SeriesSummary 单个序列的统计信息
type SeriesSummary struct {
	Key    string
	Count  int
	First  time.Time
	Last   time.Time
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Growth float64 // last/first - 1, zero when the first value is zero
}

// Summarize 计算一个分组的统计信息
func Summarize(group chart.Group) SeriesSummary {
	summary := SeriesSummary{Key: group.Key, Count: len(group.Samples)}
	if summary.Count == 0 {
		return summary
	}

	values := group.Values()
	summary.First = group.Samples[0].Timestamp
	summary.Last = group.Last().Timestamp
	summary.Min, _ = values.Min()
	summary.Max, _ = values.Max()
	summary.Mean = stat.Mean(values, nil)
	if summary.Count > 1 {
		summary.StdDev = stat.StdDev(values, nil)
	}

	if first := values[0]; first != 0 {
		summary.Growth = values.Last(0)/first - 1
	}
	return summary
}
