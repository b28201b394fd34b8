package chart

import (
	"fmt"
	"math"
	"time"
)

// Tick 坐标轴刻度
type Tick struct {
	Value float64 // pixel position along the axis
	Label string
}

// YearTicks 时间域内每年一月一日一个刻度
// YearTicks returns one tick per January 1st inside the time domain, labelled with the year.
func YearTicks(scale TimeScale) []Tick {
	var ticks []Tick
	start := scale.Domain.Min
	year := time.Date(start.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if year.Before(start) {
		year = year.AddDate(1, 0, 0)
	}
	for ; !year.After(scale.Domain.Max); year = year.AddDate(1, 0, 0) {
		ticks = append(ticks, Tick{
			Value: scale.Scale(year),
			Label: year.Format("2006"),
		})
	}
	return ticks
}

// ValueTicks returns about count round ticks inside the value domain, labelled in thousands
func ValueTicks(scale LinearScale, count int) []Tick {
	values := niceTicks(scale.Domain.Min, scale.Domain.Max, count)
	ticks := make([]Tick, 0, len(values))
	for _, value := range values {
		ticks = append(ticks, Tick{
			Value: scale.Scale(value),
			Label: FormatThousands(value),
		})
	}
	return ticks
}

// FormatThousands 以 k 为单位显示，四舍五入到整数
func FormatThousands(value float64) string {
	return fmt.Sprintf("%.0fk", math.Round(value/1000))
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// niceTicks 生成步长为 1、2、5 乘以 10 的幂次的刻度，全部落在 [start, stop] 内
func niceTicks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	if stop < start {
		start, stop = stop, start
	}

	i1, i2, inc := tickRange(start, stop, float64(count))
	if i2 < i1 {
		return nil
	}

	ticks := make([]float64, 0, int(i2-i1)+1)
	for i := i1; i <= i2; i++ {
		if inc < 0 {
			ticks = append(ticks, i/-inc)
		} else {
			ticks = append(ticks, i*inc)
		}
	}
	return ticks
}

// tickRange returns the first and last tick indexes and the increment. A negative increment
// means the step is 1/-inc, which keeps fractional steps exact.
func tickRange(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	ratio := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case ratio >= e10:
		factor = 10
	case ratio >= e5:
		factor = 5
	case ratio >= e2:
		factor = 2
	}

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}

	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickRange(start, stop, count*2)
	}
	return i1, i2, inc
}
