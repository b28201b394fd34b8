package storage

import (
	"context"
	"time"

	"github.com/rodrigo-brito/fuelchart/model"
)

// SampleFilter 过滤数据点的函数类型
type SampleFilter func(model.Sample) bool

// Storage 存储接口，包括写入数据点和按条件读取数据点
// Storage persists samples. Samples returns them ordered by date and then by insertion.
type Storage interface {
	CreateSamples(samples []model.Sample) error
	Samples(filters ...SampleFilter) ([]model.Sample, error)
	Close() error
}

// WithSeries 只保留给定序列键的数据点
func WithSeries(keys ...string) SampleFilter {
	return func(sample model.Sample) bool {
		for _, key := range keys {
			if key == sample.SeriesKey {
				return true
			}
		}
		return false
	}
}

// WithDateBetween 只保留 [start, end] 区间内的数据点
func WithDateBetween(start, end time.Time) SampleFilter {
	return func(sample model.Sample) bool {
		return !sample.Timestamp.Before(start) && !sample.Timestamp.After(end)
	}
}

func match(sample model.Sample, filters []SampleFilter) bool {
	for _, filter := range filters {
		if !filter(sample) {
			return false
		}
	}
	return true
}

// Feed 将存储适配为数据源
// Feed exposes a Storage as a dataset source
type Feed struct {
	storage Storage
	filters []SampleFilter
}

// NewFeed creates a dataset source reading from storage with the given filters
func NewFeed(storage Storage, filters ...SampleFilter) *Feed {
	return &Feed{storage: storage, filters: filters}
}

// Dataset returns the stored samples matching the feed filters
func (f *Feed) Dataset(_ context.Context) (model.Dataset, error) {
	samples, err := f.storage.Samples(f.filters...)
	if err != nil {
		return nil, err
	}
	return model.Dataset(samples), nil
}
