package model

import (
	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
)

// Series 一组有序的值，使用泛型以支持任意可排序类型
// Series is an ordered sequence of values
type Series[T constraints.Ordered] []T

// Last returns the last value of the series given a past index position
// 返回倒数第 position 个位置的值
func (s Series[T]) Last(position int) T {
	return s[len(s)-1-position]
}

// Max returns the greatest value and false when the series is empty
// 返回序列中的最大值，空序列返回 false
func (s Series[T]) Max() (T, bool) {
	return lo.Max([]T(s)), len(s) > 0
}

// Min returns the smallest value and false when the series is empty
func (s Series[T]) Min() (T, bool) {
	return lo.Min([]T(s)), len(s) > 0
}
