package plot

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rodrigo-brito/fuelchart/chart"
	"github.com/rodrigo-brito/fuelchart/tools/log"
)

// Format 输出格式
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" or "png", case insensitive
func ParseFormat(value string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimPrefix(value, "."))); format {
	case FormatSVG, FormatPNG:
		return format, nil
	}
	return "", fmt.Errorf("invalid format: %s", value)
}

const (
	valueTickCount = 10
	tickSize       = 6
	tickPadding    = 3
	axisFontSize   = 10
	labelFontSize  = 12
	titleFontSize  = 24
)

var (
	gridColor  = drawing.ColorFromHex("e0e0e0")
	axisColor  = drawing.ColorFromHex("000000")
	textColor  = drawing.ColorFromHex("333333")
	background = drawing.ColorFromHex("ffffff")
)

// Chart 将图表模型绘制为 SVG 或 PNG
type Chart struct {
	model      *chart.Model
	indicators []Indicator
	font       *truetype.Font
}

// Option 设置 Chart 的选项
type Option func(*Chart)

// WithIndicators 添加叠加指标
func WithIndicators(indicators ...Indicator) Option {
	return func(c *Chart) {
		c.indicators = append(c.indicators, indicators...)
	}
}

// NewChart 创建图表并计算全部叠加指标
func NewChart(m *chart.Model, options ...Option) (*Chart, error) {
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	c := &Chart{model: m, font: font}
	for _, option := range options {
		option(c)
	}

	longest := 0
	for _, group := range m.Groups() {
		if len(group.Samples) > longest {
			longest = len(group.Samples)
		}
	}

	// 没有任何序列长于预热期的指标不绘制
	indicators := c.indicators[:0]
	for _, indicator := range c.indicators {
		if indicator.Warmup() > longest {
			log.Warnf("[SETUP] indicator %s skipped: warmup of %d samples, longest series has %d",
				indicator.Name(), indicator.Warmup(), longest)
			continue
		}
		indicator.Load(m.Groups())
		log.Infof("[SETUP] indicator %s loaded with %d lines", indicator.Name(), len(indicator.Metrics()))
		indicators = append(indicators, indicator)
	}
	c.indicators = indicators
	return c, nil
}

func (c *Chart) Model() *chart.Model {
	return c.model
}

// Render 绘制整张图表并写入 w
func (c *Chart) Render(w io.Writer, format Format) error {
	provider := gochart.SVG
	if format == FormatPNG {
		provider = gochart.PNG
	}

	settings := c.model.Settings()
	r, err := provider(settings.Width, settings.Height)
	if err != nil {
		return err
	}
	r.SetFont(c.font)

	c.drawBackground(r)
	c.drawGrid(r)
	c.drawAxes(r)
	c.drawIndicators(r)
	c.drawSeries(r)
	c.drawLabels(r)
	c.drawCaptions(r)

	return r.Save(w)
}

// toCanvas 绘图区坐标转画布坐标
func (c *Chart) toCanvas(x, y float64) (int, int) {
	margin := c.model.Settings().Margin
	return int(math.Round(x)) + margin.Left, int(math.Round(y)) + margin.Top
}

func (c *Chart) plotSize() (float64, float64) {
	settings := c.model.Settings()
	return float64(settings.PlotWidth()), float64(settings.PlotHeight())
}

func (c *Chart) line(r gochart.Renderer, x1, y1, x2, y2 float64) {
	cx1, cy1 := c.toCanvas(x1, y1)
	cx2, cy2 := c.toCanvas(x2, y2)
	r.MoveTo(cx1, cy1)
	r.LineTo(cx2, cy2)
	r.Stroke()
}

// text 在绘图区坐标绘制文字，anchor 为 start、middle 或 end
func (c *Chart) text(r gochart.Renderer, body string, x, y float64, size float64, color drawing.Color, anchor string) {
	r.SetFontSize(size)
	r.SetFontColor(color)
	cx, cy := c.toCanvas(x, y)
	switch anchor {
	case "middle":
		cx -= r.MeasureText(body).Width() / 2
	case "end":
		cx -= r.MeasureText(body).Width()
	}
	r.Text(body, cx, cy)
}

func (c *Chart) drawBackground(r gochart.Renderer) {
	settings := c.model.Settings()
	r.SetFillColor(background)
	r.MoveTo(0, 0)
	r.LineTo(settings.Width, 0)
	r.LineTo(settings.Width, settings.Height)
	r.LineTo(0, settings.Height)
	r.Close()
	r.Fill()
}

func (c *Chart) drawGrid(r gochart.Renderer) {
	width, _ := c.plotSize()
	r.SetStrokeColor(gridColor)
	r.SetStrokeWidth(0.5)
	r.SetStrokeDashArray(nil)
	for _, tick := range chart.ValueTicks(c.model.Scales().Y, valueTickCount) {
		c.line(r, 0, tick.Value, width, tick.Value)
	}
}

func (c *Chart) drawAxes(r gochart.Renderer) {
	width, height := c.plotSize()
	scales := c.model.Scales()

	r.SetStrokeColor(axisColor)
	r.SetStrokeWidth(1)
	r.SetStrokeDashArray(nil)

	// x 轴：每年一个刻度
	c.line(r, 0, height, width, height)
	for _, tick := range chart.YearTicks(scales.X) {
		c.line(r, tick.Value, height, tick.Value, height+tickSize)
		c.text(r, tick.Label, tick.Value, height+tickSize+tickPadding+axisFontSize, axisFontSize, axisColor, "middle")
	}

	// y 轴：以 k 为单位
	c.line(r, 0, 0, 0, height)
	for _, tick := range chart.ValueTicks(scales.Y, valueTickCount) {
		c.line(r, -tickSize, tick.Value, 0, tick.Value)
		c.text(r, tick.Label, -tickSize-tickPadding, tick.Value+axisFontSize/3, axisFontSize, axisColor, "end")
	}
}

func (c *Chart) drawSeries(r gochart.Renderer) {
	scales := c.model.Scales()
	r.SetStrokeWidth(1.5)
	r.SetStrokeDashArray(nil)
	for _, group := range c.model.Groups() {
		r.SetStrokeColor(color(c.model.Color(group.Key)))
		for i, sample := range group.Samples {
			x, y := c.toCanvas(scales.Point(sample))
			if i == 0 {
				r.MoveTo(x, y)
				continue
			}
			r.LineTo(x, y)
		}
		r.Stroke()
	}
}

func (c *Chart) drawIndicators(r gochart.Renderer) {
	scales := c.model.Scales()
	r.SetStrokeWidth(1)
	for _, indicator := range c.indicators {
		for _, metric := range indicator.Metrics() {
			if len(metric.Values) == 0 {
				continue
			}
			stroke := metric.Color
			if stroke == "" {
				stroke = c.model.Color(metric.SeriesKey)
			}
			r.SetStrokeColor(color(stroke))
			r.SetStrokeDashArray(dashArray(metric.Style))
			for i, value := range metric.Values {
				x, y := c.toCanvas(scales.X.Scale(metric.Time[i]), scales.Y.Scale(value))
				if i == 0 {
					r.MoveTo(x, y)
					continue
				}
				r.LineTo(x, y)
			}
			r.Stroke()
		}
	}
	r.SetStrokeDashArray(nil)
}

// drawLabels 在每条折线末端显示序列名称
func (c *Chart) drawLabels(r gochart.Renderer) {
	scales := c.model.Scales()
	for _, group := range c.model.Groups() {
		x, y := scales.Point(group.Last())
		c.text(r, group.Key, x+8, y+4, labelFontSize, color(c.model.Color(group.Key)), "start")
	}
}

func (c *Chart) drawCaptions(r gochart.Renderer) {
	settings := c.model.Settings()
	width, height := c.plotSize()

	if settings.Title != "" {
		y := float64(settings.Margin.Top - 100)
		// 标题不能超出画布顶部
		if top := float64(titleFontSize - settings.Margin.Top); y < top {
			y = top
		}
		c.text(r, settings.Title, width/2, y, titleFontSize, axisColor, "middle")
	}

	if settings.Source != "" {
		c.text(r, settings.Source, width, height+float64(settings.Margin.Bottom)-3, labelFontSize, textColor, "end")
	}
}

// dashArray 指标线型对应的虚线样式，未知线型按虚线处理
func dashArray(style string) []float64 {
	switch style {
	case StyleSolid:
		return nil
	case StyleDotted:
		return []float64{1, 3}
	}
	return []float64{4, 4}
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
