package model

import (
	"errors"
	"fmt"
	"io"

	"go.yaml.in/yaml/v4"
)

// Tableau10 默认调色板
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Margin 图表四周的留白（像素）
type Margin struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

// Columns CSV 列名
type Columns struct {
	Date   string `yaml:"date"`
	Series string `yaml:"series"`
	Value  string `yaml:"value"`
}

// TooltipSettings 提示框相对于参考点的偏移
type TooltipSettings struct {
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

// Settings 图表配置
// Settings holds the chart configuration, usually read from a YAML file
type Settings struct {
	Title   string          `yaml:"title"`
	Source  string          `yaml:"source"`
	Width   int             `yaml:"width"`  // whole canvas, margins included
	Height  int             `yaml:"height"` // whole canvas, margins included
	Margin  Margin          `yaml:"margin"`
	Columns Columns         `yaml:"columns"`
	Tooltip TooltipSettings `yaml:"tooltip"`
	Palette []string        `yaml:"palette"`
	Addr    string          `yaml:"addr"`
	Window  string          `yaml:"window"` // trailing time window, eg: 730d, empty keeps everything
}

// DefaultSettings 返回默认配置
func DefaultSettings() Settings {
	return Settings{
		Title:  "Tracking Singapore's Shift Away from Conventional Fuel Cars",
		Source: "Source: Land Transport Authority (LTA)",
		Width:  1500,
		Height: 500,
		Margin: Margin{Top: 70, Right: 200, Bottom: 40, Left: 80},
		Columns: Columns{
			Date:   "month",
			Series: "fuel_type",
			Value:  "number",
		},
		Tooltip: TooltipSettings{OffsetX: 100, OffsetY: 50},
		Palette: append([]string(nil), Tableau10...),
		Addr:    ":8080",
	}
}

// ReadSettings 在默认配置之上读取 YAML 配置
// ReadSettings decodes YAML over the defaults. An empty document keeps the defaults.
func ReadSettings(reader io.Reader) (Settings, error) {
	settings := DefaultSettings()
	if err := yaml.NewDecoder(reader).Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return settings, err
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// PlotWidth is the drawable width inside the margins
func (s Settings) PlotWidth() int {
	return s.Width - s.Margin.Left - s.Margin.Right
}

// PlotHeight is the drawable height inside the margins
func (s Settings) PlotHeight() int {
	return s.Height - s.Margin.Top - s.Margin.Bottom
}

// Validate 检查配置是否可用
func (s Settings) Validate() error {
	if s.PlotWidth() <= 0 || s.PlotHeight() <= 0 {
		return fmt.Errorf("%w: plot area %dx%d", ErrInvalidSettings, s.PlotWidth(), s.PlotHeight())
	}
	if len(s.Palette) == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalidSettings)
	}
	if s.Columns.Date == "" || s.Columns.Series == "" || s.Columns.Value == "" {
		return fmt.Errorf("%w: column names are required", ErrInvalidSettings)
	}
	return nil
}
