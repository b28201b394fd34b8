package chart

import (
	"math"
	"time"

	"github.com/rodrigo-brito/fuelchart/model"
)

// TimeRange 时间域 [Min, Max]
type TimeRange struct {
	Min time.Time
	Max time.Time
}

// ValueRange 数值域 [Min, Max]，Min 固定为 0
type ValueRange struct {
	Min float64
	Max float64
}

// ComputeDomains 计算时间与数值的值域
// ComputeDomains returns the time extent and the value extent of the dataset.
// The value extent always starts at zero.
func ComputeDomains(dataset model.Dataset) (TimeRange, ValueRange, error) {
	if len(dataset) == 0 {
		return TimeRange{}, ValueRange{}, model.ErrEmptyDataset
	}

	timeRange := TimeRange{Min: dataset[0].Timestamp, Max: dataset[0].Timestamp}
	valueRange := ValueRange{Min: 0, Max: dataset[0].Value}
	for _, sample := range dataset[1:] {
		if sample.Timestamp.Before(timeRange.Min) {
			timeRange.Min = sample.Timestamp
		}
		if sample.Timestamp.After(timeRange.Max) {
			timeRange.Max = sample.Timestamp
		}
		if sample.Value > valueRange.Max {
			valueRange.Max = sample.Value
		}
	}
	return timeRange, valueRange, nil
}

// TimeScale maps a time domain linearly onto a pixel range
type TimeScale struct {
	Domain TimeRange
	From   float64
	To     float64
}

// Scale 时间转像素，单点时间域全部映射到 From
func (s TimeScale) Scale(t time.Time) float64 {
	extent := s.Domain.Max.Sub(s.Domain.Min)
	if extent == 0 {
		return s.From
	}
	ratio := float64(t.Sub(s.Domain.Min)) / float64(extent)
	return s.From + ratio*(s.To-s.From)
}

// Invert 像素转时间，超出像素范围时限制在时间域两端
// Invert maps px back to a time. Positions outside the pixel range (and NaN) are clamped
// to the domain ends, so the duration conversion never overflows.
func (s TimeScale) Invert(px float64) time.Time {
	if s.To == s.From {
		return s.Domain.Min
	}
	ratio := (px - s.From) / (s.To - s.From)
	switch {
	case math.IsNaN(ratio) || ratio <= 0:
		return s.Domain.Min
	case ratio >= 1:
		return s.Domain.Max
	}
	extent := s.Domain.Max.Sub(s.Domain.Min)
	return s.Domain.Min.Add(time.Duration(ratio * float64(extent)))
}

// LinearScale maps a numeric domain linearly onto a pixel range
type LinearScale struct {
	Domain ValueRange
	From   float64
	To     float64
}

// Scale 数值转像素，零宽数值域全部映射到 From
func (s LinearScale) Scale(v float64) float64 {
	extent := s.Domain.Max - s.Domain.Min
	if extent == 0 {
		return s.From
	}
	return s.From + (v-s.Domain.Min)/extent*(s.To-s.From)
}

// Invert 像素转数值
func (s LinearScale) Invert(px float64) float64 {
	if s.To == s.From {
		return s.Domain.Min
	}
	return s.Domain.Min + (px-s.From)/(s.To-s.From)*(s.Domain.Max-s.Domain.Min)
}

// ScaleMapping 一对只读的比例尺
// ScaleMapping is the pair of scales of a chart. X grows to the right; Y is inverted
// because pixel y grows downward.
type ScaleMapping struct {
	X TimeScale
	Y LinearScale
}

// BuildScales 由值域和绘图区尺寸构造比例尺
func BuildScales(timeRange TimeRange, valueRange ValueRange, width, height float64) ScaleMapping {
	return ScaleMapping{
		X: TimeScale{Domain: timeRange, From: 0, To: width},
		Y: LinearScale{Domain: valueRange, From: height, To: 0},
	}
}

// Point 将数据点转换为像素坐标
func (m ScaleMapping) Point(sample model.Sample) (x, y float64) {
	return m.X.Scale(sample.Timestamp), m.Y.Scale(sample.Value)
}
