package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/glebarez/sqlite"
	"github.com/urfave/cli/v2"

	"github.com/rodrigo-brito/fuelchart"
	"github.com/rodrigo-brito/fuelchart/chart"
	"github.com/rodrigo-brito/fuelchart/download"
	"github.com/rodrigo-brito/fuelchart/feed"
	"github.com/rodrigo-brito/fuelchart/model"
	"github.com/rodrigo-brito/fuelchart/plot"
	"github.com/rodrigo-brito/fuelchart/plot/indicator"
	"github.com/rodrigo-brito/fuelchart/service"
	"github.com/rodrigo-brito/fuelchart/storage"
	"github.com/rodrigo-brito/fuelchart/tools/log"
)

var errNoSource = errors.New("no data source, use --file, --url or --db")

var sourceFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "CSV file with month, fuel_type and number columns",
	},
	&cli.StringSliceFlag{
		Name:    "url",
		Aliases: []string{"u"},
		Usage:   "remote CSV file",
	},
	&cli.StringFlag{
		Name:  "window",
		Usage: "keep only the trailing window, eg: 730d, 104w",
	},
	&cli.StringFlag{
		Name:  "db",
		Usage: "database created by the import command (buntdb, or SQLite for .sqlite files)",
	},
	&cli.StringSliceFlag{
		Name:  "series",
		Usage: "series to read from --db, all when empty",
	},
}

func main() {
	app := &cli.App{
		Name:     "fuelchart",
		HelpName: "fuelchart",
		Usage:    "Multi-series time chart with a nearest-date tooltip",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML settings file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "log level: debug, info, warn, error",
			},
		},
		Before: func(c *cli.Context) error {
			level, err := log.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve the interactive chart",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "listen address, eg: :8080",
					},
					&cli.IntFlag{
						Name:  "sma",
						Usage: "draw a simple moving average of N months for every series",
					},
					&cli.IntFlag{
						Name:  "bollinger",
						Usage: "draw bollinger bands of N months for every series",
					},
				}, sourceFlags...),
				Action: func(c *cli.Context) error {
					ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer cancel()

					settings, err := loadSettings(c)
					if err != nil {
						return err
					}

					var indicators []plot.Indicator
					if period := c.Int("sma"); period > 0 {
						indicators = append(indicators, indicator.SMA(period, ""))
					}
					if period := c.Int("bollinger"); period > 0 {
						indicators = append(indicators, indicator.BollingerBands(period, 2, "#bab0ab"))
					}

					fc, err := build(ctx, c, settings, fuelchart.WithIndicators(indicators...))
					if err != nil {
						return err
					}

					var options []plot.ServerOption
					if addr := c.String("addr"); addr != "" {
						options = append(options, plot.WithAddr(addr))
					}
					return fc.Serve(ctx, options...)
				},
			},
			{
				Name:  "render",
				Usage: "render the chart to a SVG or PNG file",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "output file, the extension selects the format (.svg or .png)",
						Required: true,
					},
				}, sourceFlags...),
				Action: func(c *cli.Context) error {
					format, err := plot.ParseFormat(filepath.Ext(c.String("output")))
					if err != nil {
						return err
					}

					settings, err := loadSettings(c)
					if err != nil {
						return err
					}

					fc, err := build(c.Context, c, settings)
					if err != nil {
						return err
					}

					file, err := os.Create(c.String("output"))
					if err != nil {
						return err
					}
					defer file.Close()

					if err := fc.Render(file, format); err != nil {
						return err
					}
					log.Infof("chart saved at %s", c.String("output"))
					return nil
				},
			},
			{
				Name:  "summary",
				Usage: "show series statistics and the value distribution",
				Flags: sourceFlags,
				Action: func(c *cli.Context) error {
					settings, err := loadSettings(c)
					if err != nil {
						return err
					}

					fc, err := build(c.Context, c, settings)
					if err != nil {
						return err
					}
					return fc.Summary(os.Stdout)
				},
			},
			{
				Name:  "inspect",
				Usage: "print the tooltip shown for a pointer position",
				Flags: append([]cli.Flag{
					&cli.Float64Flag{
						Name:     "x",
						Usage:    "pixels from the left edge of the plot area",
						Required: true,
					},
				}, sourceFlags...),
				Action: func(c *cli.Context) error {
					settings, err := loadSettings(c)
					if err != nil {
						return err
					}

					fc, err := build(c.Context, c, settings)
					if err != nil {
						return err
					}

					tooltip := fc.Inspect(c.Float64("x"))
					fmt.Printf("%s (guide at %.1fpx, tooltip at %.1f, %.1f)\n",
						tooltip.Label, tooltip.GuideX, tooltip.Left, tooltip.Top)
					for _, entry := range tooltip.Entries {
						fmt.Printf("  %s: %s\n", entry.SeriesKey, chart.FormatValue(entry.Value))
					}
					return nil
				},
			},
			{
				Name:  "download",
				Usage: "download a remote CSV file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Aliases:  []string{"u"},
						Usage:    "remote CSV file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "output file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "attempts",
						Value: 5,
						Usage: "max attempts on network errors and server failures",
					},
				},
				Action: func(c *cli.Context) error {
					downloader := download.NewDownloader(
						download.WithAttempts(c.Int("attempts")),
						download.WithProgress(),
					)
					return downloader.Download(c.Context, c.String("url"), c.String("output"))
				},
			},
			{
				Name:  "import",
				Usage: "import CSV files into a database, read it later with --db",
				Flags: sourceFlags,
				Action: func(c *cli.Context) error {
					path := c.String("db")
					if path == "" {
						return errors.New("import requires --db")
					}

					settings, err := loadSettings(c)
					if err != nil {
						return err
					}

					source, err := csvFeeder(c, settings)
					if err != nil {
						return err
					}

					db, err := openStorage(path)
					if err != nil {
						return err
					}
					defer db.Close()

					_, err = fuelchart.New(c.Context, source, fuelchart.WithSettings(settings), fuelchart.WithStore(db))
					if err != nil {
						return err
					}
					log.Infof("samples saved at %s", path)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openStorage 以 .sqlite 或 .sqlite3 结尾的文件使用 SQLite，其余使用 buntdb
func openStorage(path string) (storage.Storage, error) {
	switch filepath.Ext(path) {
	case ".sqlite", ".sqlite3":
		return storage.FromSQL(sqlite.Open(path))
	}
	return storage.FromFile(path)
}

func loadSettings(c *cli.Context) (model.Settings, error) {
	path := c.String("config")
	if path == "" {
		return model.DefaultSettings(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return model.Settings{}, err
	}
	defer file.Close()

	return model.ReadSettings(file)
}

// window 命令行参数优先于配置文件
func window(c *cli.Context, settings model.Settings) string {
	if value := c.String("window"); value != "" {
		return value
	}
	return settings.Window
}

// feeder 根据命令行参数选择数据源
func feeder(c *cli.Context, settings model.Settings) (service.Feeder, func(), error) {
	if path := c.String("db"); path != "" {
		db, err := openStorage(path)
		if err != nil {
			return nil, nil, err
		}

		var filters []storage.SampleFilter
		if series := c.StringSlice("series"); len(series) > 0 {
			filters = append(filters, storage.WithSeries(series...))
		}
		return feed.Window(storage.NewFeed(db, filters...), window(c, settings)), func() { db.Close() }, nil
	}

	source, err := csvFeeder(c, settings)
	return source, func() {}, err
}

func csvFeeder(c *cli.Context, settings model.Settings) (*feed.CSVFeed, error) {
	var sources []feed.Source
	for _, file := range c.StringSlice("file") {
		sources = append(sources, feed.Source{File: file})
	}
	for _, url := range c.StringSlice("url") {
		sources = append(sources, feed.Source{URL: url})
	}
	if len(sources) == 0 {
		return nil, errNoSource
	}

	return feed.NewCSVFeed(sources,
		feed.WithColumns(settings.Columns),
		feed.WithWindow(window(c, settings)),
		feed.WithDownloader(download.NewDownloader(download.WithProgress())),
	), nil
}

func build(ctx context.Context, c *cli.Context, settings model.Settings,
	options ...fuelchart.Option) (*fuelchart.FuelChart, error) {

	source, closer, err := feeder(c, settings)
	if err != nil {
		return nil, err
	}
	defer closer()

	return fuelchart.New(ctx, source, append([]fuelchart.Option{fuelchart.WithSettings(settings)}, options...)...)
}
