package model

import (
	"sort"
	"time"
)

// DateLayout 输入文件中日期字段的格式
// DateLayout is the expected format of the date column
const DateLayout = "2006-01-02"

// RawRow 一条尚未解析的 CSV 记录
type RawRow struct {
	Date      string
	SeriesKey string
	Value     string
}

// Sample 一个解析后的数据点，创建后不可修改
// Sample is a single parsed observation. Timestamp is UTC midnight.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	SeriesKey string    `json:"series"`
	Value     float64   `json:"value"`
}

// Less orders samples by timestamp and then by series key
func (s Sample) Less(j Item) bool {
	other := j.(Sample)
	if !s.Timestamp.Equal(other.Timestamp) {
		return s.Timestamp.Before(other.Timestamp)
	}
	return s.SeriesKey < other.SeriesKey
}

// Dataset 按加载顺序排列的全部数据点
// Dataset keeps samples in the order they were loaded.
// Samples of one series are expected in increasing timestamp order.
type Dataset []Sample

// Len returns the number of samples
func (d Dataset) Len() int {
	return len(d)
}

// Values returns every sample value in dataset order
func (d Dataset) Values() Series[float64] {
	values := make(Series[float64], len(d))
	for i, sample := range d {
		values[i] = sample.Value
	}
	return values
}

// Dates 返回去重并升序排列的日期列表，用于二分查找最近日期
// Dates returns the distinct timestamps of the dataset in ascending order
func (d Dataset) Dates() []time.Time {
	seen := make(map[int64]struct{}, len(d))
	dates := make([]time.Time, 0, len(d))
	for _, sample := range d {
		key := sample.Timestamp.UnixNano()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dates = append(dates, sample.Timestamp)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}
