package chart

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rodrigo-brito/fuelchart/model"
)

var (
	errNotNumeric = errors.New("value is not numeric")
	errNotFinite  = errors.New("value is not finite")
	errNegative   = errors.New("value is negative")
)

// Load 解析原始记录，任何一行失败都不会返回部分数据
// Load parses raw rows into a Dataset. It is all-or-nothing: the first bad row aborts the
// load and no partial dataset is returned.
func Load(rows []model.RawRow) (model.Dataset, error) {
	dataset := make(model.Dataset, 0, len(rows))
	for i, row := range rows {
		timestamp, err := ParseDate(row.Date)
		if err != nil {
			return nil, &model.ParseError{Row: i + 1, Field: "date", Value: row.Date, Err: err}
		}

		value, err := ParseValue(row.Value)
		if err != nil {
			return nil, &model.ParseError{Row: i + 1, Field: "value", Value: row.Value, Err: err}
		}

		dataset = append(dataset, model.Sample{
			Timestamp: timestamp,
			SeriesKey: row.SeriesKey,
			Value:     value,
		})
	}
	return dataset, nil
}

// ParseDate parses a YYYY-MM-DD string into UTC midnight of that day
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(model.DateLayout, value, time.UTC)
}

// ParseValue 解析数值字段，拒绝 NaN、无穷大和负数
func ParseValue(value string) (float64, error) {
	number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, errNotNumeric
	}
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, errNotFinite
	}
	if number < 0 {
		return 0, errNegative
	}
	return number, nil
}
