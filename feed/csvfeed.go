package feed

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/xhit/go-str2duration/v2"

	"github.com/rodrigo-brito/fuelchart/chart"
	"github.com/rodrigo-brito/fuelchart/download"
	"github.com/rodrigo-brito/fuelchart/model"
	"github.com/rodrigo-brito/fuelchart/service"
	"github.com/rodrigo-brito/fuelchart/tools/log"
)

// ErrMissingColumn 表头中缺少必需的列
var ErrMissingColumn = errors.New("missing column")

// Source 一个 CSV 数据源，File 与 URL 二选一
type Source struct {
	File string
	URL  string
}

func (s Source) String() string {
	if s.URL != "" {
		return s.URL
	}
	return s.File
}

// CSVFeed 从一个或多个 CSV 数据源加载数据集
// CSVFeed loads a dataset from one or more CSV sources. Several sources are merged in
// chronological order.
type CSVFeed struct {
	Sources    []Source
	columns    model.Columns
	window     string
	downloader download.Downloader
}

// Option 设置 CSVFeed 的选项
type Option func(*CSVFeed)

// WithColumns 设置日期、序列和数值列的列名
func WithColumns(columns model.Columns) Option {
	return func(c *CSVFeed) {
		c.columns = columns
	}
}

// WithWindow keeps only the trailing window of the data, eg: 730d, 104w
func WithWindow(window string) Option {
	return func(c *CSVFeed) {
		c.window = window
	}
}

// WithDownloader sets the downloader used for URL sources
func WithDownloader(downloader download.Downloader) Option {
	return func(c *CSVFeed) {
		c.downloader = downloader
	}
}

// NewCSVFeed 创建 CSVFeed，数据在调用 Dataset 时才读取
func NewCSVFeed(sources []Source, options ...Option) *CSVFeed {
	feed := &CSVFeed{
		Sources:    sources,
		columns:    model.DefaultSettings().Columns,
		downloader: download.NewDownloader(),
	}
	for _, option := range options {
		option(feed)
	}
	return feed
}

// Dataset 读取并解析全部数据源
func (c *CSVFeed) Dataset(ctx context.Context) (model.Dataset, error) {
	if len(c.Sources) == 0 {
		return nil, fmt.Errorf("csv feed: no sources")
	}

	datasets := make([]model.Dataset, 0, len(c.Sources))
	for _, source := range c.Sources {
		reader, err := c.open(ctx, source)
		if err != nil {
			return nil, err
		}

		rows, err := ReadRows(reader, c.columns)
		if closer, ok := reader.(io.Closer); ok {
			closer.Close()
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}

		dataset, err := chart.Load(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}

		log.Infof("[SETUP] loaded %d samples from %s", len(dataset), source)
		datasets = append(datasets, dataset)
	}

	dataset := datasets[0]
	if len(datasets) > 1 {
		dataset = Merge(datasets...)
	}

	if c.window != "" {
		return Limit(dataset, c.window)
	}
	return dataset, nil
}

func (c *CSVFeed) open(ctx context.Context, source Source) (io.Reader, error) {
	if source.URL != "" {
		body, err := c.downloader.Fetch(ctx, source.URL)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(body), nil
	}
	return os.Open(source.File)
}

// parseHeaders 解析表头；第一列能解析为日期时视为无表头文件，按位置取列
func parseHeaders(headers []string, columns model.Columns) (index map[string]int, hasHeader bool, err error) {
	index = map[string]int{"date": 0, "series": 1, "value": 2}

	first := strings.TrimPrefix(strings.TrimSpace(headers[0]), "\ufeff")
	if _, err := chart.ParseDate(first); err == nil {
		return index, false, nil
	}

	positions := make(map[string]int, len(headers))
	for i, header := range headers {
		header = strings.TrimPrefix(strings.TrimSpace(header), "\ufeff")
		positions[header] = i
	}

	for field, name := range map[string]string{
		"date":   columns.Date,
		"series": columns.Series,
		"value":  columns.Value,
	} {
		position, ok := positions[name]
		if !ok {
			return nil, true, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		index[field] = position
	}

	return index, true, nil
}

// ReadRows 读取 CSV 内容并按列名提取原始记录
// ReadRows reads CSV records from reader. A header row is detected when the first cell is
// not a date; otherwise columns are taken by position (date, series, value).
func ReadRows(reader io.Reader, columns model.Columns) ([]model.RawRow, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	lines, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	index, hasHeader, err := parseHeaders(lines[0], columns)
	if err != nil {
		return nil, err
	}
	if hasHeader {
		lines = lines[1:]
	}

	width := lo.Max([]int{index["date"], index["series"], index["value"]}) + 1
	rows := make([]model.RawRow, 0, len(lines))
	for i, line := range lines {
		if len(line) < width {
			return nil, &model.ParseError{Row: i + 1, Field: "row", Value: strings.Join(line, ",")}
		}
		rows = append(rows, model.RawRow{
			Date:      strings.TrimSpace(line[index["date"]]),
			SeriesKey: strings.TrimSpace(line[index["series"]]),
			Value:     line[index["value"]],
		})
	}
	return rows, nil
}

// Merge 使用优先队列按时间顺序合并多个数据集，同一天按序列键排序
func Merge(datasets ...model.Dataset) model.Dataset {
	size := 0
	for _, dataset := range datasets {
		size += len(dataset)
	}

	items := make([]model.Item, 0, size)
	for _, dataset := range datasets {
		for _, sample := range dataset {
			items = append(items, sample)
		}
	}

	queue := model.NewPriorityQueue(items)
	merged := make(model.Dataset, 0, size)
	for queue.Len() > 0 {
		merged = append(merged, queue.Pop().(model.Sample))
	}
	return merged
}

// windowFeed 截取另一个数据源的最后一段时间
type windowFeed struct {
	source service.Feeder
	window string
}

// Window 只保留 source 最后 window 时间范围内的数据，window 为空时原样返回 source
// Window wraps any dataset source (eg: a storage feed) with the trailing window Limit applies.
func Window(source service.Feeder, window string) service.Feeder {
	if window == "" {
		return source
	}
	return windowFeed{source: source, window: window}
}

func (w windowFeed) Dataset(ctx context.Context) (model.Dataset, error) {
	dataset, err := w.source.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return Limit(dataset, w.window)
}

// Limit 只保留最后一个样本之前 window 时间范围内的数据
// Limit keeps the samples not older than window before the latest sample.
func Limit(dataset model.Dataset, window string) (model.Dataset, error) {
	duration, err := str2duration.ParseDuration(window)
	if err != nil {
		return nil, fmt.Errorf("invalid window %q: %w", window, err)
	}
	if len(dataset) == 0 {
		return dataset, nil
	}

	latest := lo.MaxBy(dataset, func(a, b model.Sample) bool {
		return a.Timestamp.After(b.Timestamp)
	}).Timestamp
	start := latest.Add(-duration)

	return lo.Filter(dataset, func(sample model.Sample, _ int) bool {
		return !sample.Timestamp.Before(start)
	}), nil
}
