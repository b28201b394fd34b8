package fuelchart

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"

	"github.com/rodrigo-brito/fuelchart/chart"
	"github.com/rodrigo-brito/fuelchart/model"
	"github.com/rodrigo-brito/fuelchart/plot"
	"github.com/rodrigo-brito/fuelchart/service"
	"github.com/rodrigo-brito/fuelchart/tools/log"
	"github.com/rodrigo-brito/fuelchart/tools/metrics"
)

const importBatchSize = 500

func init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04",
	})
}

type FuelChart struct {
	settings   model.Settings   // 图表配置
	feeder     service.Feeder   // 数据集来源
	store      service.Store    // 可选，加载后写入的存储
	indicators []plot.Indicator // 叠加指标

	model *chart.Model
	chart *plot.Chart
}

type Option func(*FuelChart)

// WithSettings 替换默认配置
func WithSettings(settings model.Settings) Option {
	return func(f *FuelChart) {
		f.settings = settings
	}
}

// WithLogLevel 设置日志级别。例如: log.DebugLevel、log.InfoLevel、log.WarnLevel
// WithLogLevel sets the log level. eg: log.DebugLevel, log.InfoLevel, log.WarnLevel
func WithLogLevel(level log.Level) Option {
	return func(_ *FuelChart) {
		log.SetLevel(level)
	}
}

// WithIndicators 在图表上叠加指标
func WithIndicators(indicators ...plot.Indicator) Option {
	return func(f *FuelChart) {
		f.indicators = append(f.indicators, indicators...)
	}
}

// WithStore 加载后把样本写入存储
// WithStore persists every loaded sample into the given store
func WithStore(store service.Store) Option {
	return func(f *FuelChart) {
		f.store = store
	}
}

// New 加载数据集并构建图表模型
// New loads the dataset from the feeder and builds the chart model; errors are fatal for
// the whole load (nothing partial is drawn).
func New(ctx context.Context, feeder service.Feeder, options ...Option) (*FuelChart, error) {
	f := &FuelChart{
		settings: model.DefaultSettings(),
		feeder:   feeder,
	}
	for _, option := range options {
		option(f)
	}

	dataset, err := f.feeder.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	if f.store != nil {
		if err := f.persist(dataset); err != nil {
			return nil, err
		}
	}

	f.model, err = chart.New(dataset, f.settings)
	if err != nil {
		return nil, err
	}
	log.Infof("[SETUP] chart built with %d samples and %d series", dataset.Len(), len(f.model.Groups()))

	f.chart, err = plot.NewChart(f.model, plot.WithIndicators(f.indicators...))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// persist 分批写入存储并显示进度
func (f *FuelChart) persist(dataset model.Dataset) error {
	log.Info("[SETUP] importing samples")
	progressBar := progressbar.Default(int64(len(dataset)))
	for start := 0; start < len(dataset); start += importBatchSize {
		end := start + importBatchSize
		if end > len(dataset) {
			end = len(dataset)
		}
		if err := f.store.CreateSamples(dataset[start:end]); err != nil {
			return err
		}
		if err := progressBar.Add(end - start); err != nil {
			log.Warnf("update progressbar fail: %v", err)
		}
	}
	return nil
}

func (f *FuelChart) Model() *chart.Model {
	return f.model
}

// Inspect returns the tooltip state for a pointer at x pixels from the plot left edge
func (f *FuelChart) Inspect(x float64) chart.Tooltip {
	return f.model.PointerMove(x)
}

// Render 将图表写入 w
func (f *FuelChart) Render(w io.Writer, format plot.Format) error {
	return f.chart.Render(w, format)
}

// Serve 启动交互页面，直到 ctx 被取消
func (f *FuelChart) Serve(ctx context.Context, options ...plot.ServerOption) error {
	server, err := plot.NewServer(f.chart, options...)
	if err != nil {
		return err
	}
	return server.Start(ctx)
}

// Summary 输出每个序列的统计信息和所有数值的分布直方图
func (f *FuelChart) Summary(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Series", "Samples", "First", "Last", "Min", "Max", "Mean", "Std Dev", "Growth"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	var total int
	for _, group := range f.model.Groups() {
		summary := metrics.Summarize(group)
		table.Append([]string{
			summary.Key,
			strconv.Itoa(summary.Count),
			summary.First.Format(model.DateLayout),
			summary.Last.Format(model.DateLayout),
			chart.FormatValue(summary.Min),
			chart.FormatValue(summary.Max),
			fmt.Sprintf("%.2f", summary.Mean),
			fmt.Sprintf("%.2f", summary.StdDev),
			fmt.Sprintf("%.1f %%", summary.Growth*100),
		})
		total += summary.Count
	}

	timeRange, valueRange := f.model.Domains()
	table.SetFooter([]string{
		"TOTAL",
		strconv.Itoa(total),
		timeRange.Min.Format(model.DateLayout),
		timeRange.Max.Format(model.DateLayout),
		"",
		chart.FormatValue(valueRange.Max),
		"",
		"",
		"",
	})
	table.Render()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "------ VALUES -------")
	hist := histogram.Hist(15, f.model.Dataset().Values())
	if err := histogram.Fprint(w, hist, histogram.Linear(10)); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}
