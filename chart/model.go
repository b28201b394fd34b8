package chart

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rodrigo-brito/fuelchart/model"
)

// TooltipDateLayout 提示框标题的日期格式
const TooltipDateLayout = "Jan 2006"

// Model 图表模型：数据集、比例尺、分组和最近点查询
// Model is built once from a dataset and never mutated, so it is safe to share between
// goroutines (eg: concurrent HTTP handlers).
type Model struct {
	dataset    model.Dataset
	timeRange  TimeRange
	valueRange ValueRange
	scales     ScaleMapping
	groups     []Group
	dates      []time.Time
	palette    Palette
	settings   model.Settings
}

// New 构建图表模型
func New(dataset model.Dataset, settings model.Settings) (*Model, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	timeRange, valueRange, err := ComputeDomains(dataset)
	if err != nil {
		return nil, err
	}

	groups := GroupBySeries(dataset)
	keys := make([]string, len(groups))
	for i, group := range groups {
		keys[i] = group.Key
	}

	return &Model{
		dataset:    dataset,
		timeRange:  timeRange,
		valueRange: valueRange,
		scales:     BuildScales(timeRange, valueRange, float64(settings.PlotWidth()), float64(settings.PlotHeight())),
		groups:     groups,
		dates:      dataset.Dates(),
		palette:    NewPalette(settings.Palette, keys...),
		settings:   settings,
	}, nil
}

func (m *Model) Dataset() model.Dataset {
	return m.dataset
}

func (m *Model) Scales() ScaleMapping {
	return m.scales
}

func (m *Model) Groups() []Group {
	return m.groups
}

func (m *Model) Settings() model.Settings {
	return m.settings
}

// Domains returns the time and value extents the scales were built from
func (m *Model) Domains() (TimeRange, ValueRange) {
	return m.timeRange, m.valueRange
}

// Dates returns the distinct dates in ascending order
func (m *Model) Dates() []time.Time {
	return m.dates
}

// Color returns the palette color of a series
func (m *Model) Color(key string) string {
	return m.palette.Color(key)
}

// NearestDate 像素 x 反算为时间后查找最近的日期
func (m *Model) NearestDate(x float64) time.Time {
	// dates is never empty here, New rejects empty datasets
	date, _ := nearestDate(m.dates, m.scales.X.Invert(x))
	return date
}

// TooltipEntry 提示框中的一行
type TooltipEntry struct {
	SeriesKey string  `json:"series"`
	Value     float64 `json:"value"`
	Color     string  `json:"color"`
}

// Tooltip 一次指针事件之后参考线和提示框的状态
// Tooltip is the state of the guide line and the tooltip after a pointer event.
// Positions are relative to the plot area.
type Tooltip struct {
	Visible bool           `json:"visible"`
	GuideX  float64        `json:"guideX"`
	Date    time.Time      `json:"date"`
	Label   string         `json:"label"`
	Entries []TooltipEntry `json:"entries"`
	HTML    string         `json:"html"`
	Left    float64        `json:"left"`
	Top     float64        `json:"top"`
}

// PointerMove 根据指针的水平像素位置计算提示框
func (m *Model) PointerMove(x float64) Tooltip {
	date := m.NearestDate(x)
	samples := SamplesOnDate(m.dataset, date)

	xPos := m.scales.X.Scale(date)
	yPos := m.scales.Y.Scale(samples[0].Value)

	tooltip := Tooltip{
		Visible: true,
		GuideX:  xPos,
		Date:    date,
		Label:   date.Format(TooltipDateLayout),
		Entries: make([]TooltipEntry, 0, len(samples)),
		Left:    xPos + m.settings.Tooltip.OffsetX,
		Top:     yPos + m.settings.Tooltip.OffsetY,
	}

	var content strings.Builder
	fmt.Fprintf(&content, "<strong>%s</strong><br>", tooltip.Label)
	for _, sample := range samples {
		tooltip.Entries = append(tooltip.Entries, TooltipEntry{
			SeriesKey: sample.SeriesKey,
			Value:     sample.Value,
			Color:     m.palette.Color(sample.SeriesKey),
		})
		fmt.Fprintf(&content, "<strong>%s:</strong> %s<br>", html.EscapeString(sample.SeriesKey), FormatValue(sample.Value))
	}
	tooltip.HTML = content.String()

	return tooltip
}

// PointerLeave hides the guide line and the tooltip
func (m *Model) PointerLeave() Tooltip {
	return Tooltip{Visible: false}
}

// FormatValue 千位分隔，最多三位小数
func FormatValue(value float64) string {
	if value == math.Trunc(value) && math.Abs(value) < 1<<53 {
		return humanize.Comma(int64(value))
	}
	return humanize.Commaf(math.Round(value*1000) / 1000)
}
