package model

import (
	"errors"
	"fmt"
)

var (
	// ErrParse 日期或数值字段无法解析
	ErrParse = errors.New("parse error")
	// ErrEmptyDataset 数据集为空，无法计算值域
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInvalidSettings 配置不合法
	ErrInvalidSettings = errors.New("invalid settings")
)

// ParseError 表示某一行的某个字段解析失败
// ParseError reports the row and field that could not be parsed
type ParseError struct {
	Row   int    // 1-based data row, header excluded
	Field string // "date", "value" or "row"
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error at row %d (%s=%q): %v", e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parse error at row %d (%s=%q)", e.Row, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParse) hold for every ParseError
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
