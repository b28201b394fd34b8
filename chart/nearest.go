package chart

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/rodrigo-brito/fuelchart/model"
)

// NearestSampleDate 返回离目标时间最近的样本日期
// NearestSampleDate resolves target to the closest date present in the dataset.
// Equal distances resolve to the earlier date; targets outside the data clamp to the
// first or last date.
func NearestSampleDate(dataset model.Dataset, target time.Time) (time.Time, error) {
	return nearestDate(dataset.Dates(), target)
}

// nearestDate bisects a sorted list of distinct dates
func nearestDate(dates []time.Time, target time.Time) (time.Time, error) {
	switch len(dates) {
	case 0:
		return time.Time{}, model.ErrEmptyDataset
	case 1:
		return dates[0], nil
	}

	// 左二分：第一个不小于 target 的位置，并限制在 [1, len-1]
	i := sort.Search(len(dates), func(i int) bool {
		return !dates[i].Before(target)
	})
	if i < 1 {
		i = 1
	}
	if i > len(dates)-1 {
		i = len(dates) - 1
	}

	d0, d1 := dates[i-1], dates[i]
	if target.Sub(d0) > d1.Sub(target) {
		return d1, nil
	}
	return d0, nil
}

// SamplesOnDate 返回时间戳与 date 完全相等的样本，保持数据集顺序
func SamplesOnDate(dataset model.Dataset, date time.Time) []model.Sample {
	return lo.Filter(dataset, func(sample model.Sample, _ int) bool {
		return sample.Timestamp.Equal(date)
	})
}
