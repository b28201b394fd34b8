package plot

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/rodrigo-brito/fuelchart/model"
	"github.com/rodrigo-brito/fuelchart/tools/log"
)

//go:embed assets
var staticFiles embed.FS

var ErrInvalidPointer = errors.New("invalid pointer position")

const shutdownTimeout = 5 * time.Second

// Server 图表页面与指针事件接口
// Every handler reads the immutable chart only, the rendered images are computed once.
type Server struct {
	addr   string
	chart  *Chart
	page   *template.Template
	script template.JS
	svg    []byte
	png    []byte
}

type ServerOption func(*Server)

// WithAddr 监听地址，默认 :8080
func WithAddr(addr string) ServerOption {
	return func(s *Server) {
		s.addr = addr
	}
}

// NewServer 预先渲染 SVG、PNG 并压缩页面脚本
func NewServer(chart *Chart, options ...ServerOption) (*Server, error) {
	server := &Server{
		addr:  chart.Model().Settings().Addr,
		chart: chart,
	}
	for _, option := range options {
		option(server)
	}
	if server.addr == "" {
		server.addr = ":8080"
	}

	var err error
	server.page, err = template.ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, err
	}

	script, err := staticFiles.ReadFile("assets/chart.js")
	if err != nil {
		return nil, err
	}
	result := api.Transform(string(script), api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("minify script: %s", result.Errors[0].Text)
	}
	server.script = template.JS(result.Code)

	var svg, png bytes.Buffer
	if err := chart.Render(&svg, FormatSVG); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	if err := chart.Render(&png, FormatPNG); err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	server.svg, server.png = svg.Bytes(), png.Bytes()

	return server, nil
}

func (s *Server) Addr() string {
	return s.addr
}

// Handler 注册全部路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /chart.svg", s.handleImage("image/svg+xml", s.svg))
	mux.HandleFunc("GET /chart.png", s.handleImage("image/png", s.png))
	mux.HandleFunc("GET /api/pointer", s.handlePointer)
	mux.HandleFunc("GET /api/series", s.handleSeries)
	return mux
}

// Start 启动 HTTP 服务，ctx 取消后优雅退出
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- server.Shutdown(shutdownCtx)
	}()

	log.Infof("[SETUP] chart available at http://localhost%s", s.addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

type page struct {
	Title      string
	Width      int
	Height     int
	PlotWidth  int
	PlotHeight int
	Margin     model.Margin
	SVG        template.HTML
	Script     template.JS
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	settings := s.chart.Model().Settings()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.page.Execute(w, page{
		Title:      settings.Title,
		Width:      settings.Width,
		Height:     settings.Height,
		PlotWidth:  settings.PlotWidth(),
		PlotHeight: settings.PlotHeight(),
		Margin:     settings.Margin,
		SVG:        template.HTML(s.svg), //nolint:gosec
		Script:     s.script,
	})
	if err != nil {
		log.Error(err)
	}
}

func (s *Server) handleImage(contentType string, content []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		if _, err := w.Write(content); err != nil {
			log.Error(err)
		}
	}
}

// parsePointer 指针相对绘图区左边缘的像素位置，必须是有限数
func parsePointer(value string) (float64, error) {
	x, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPointer, value)
	}
	return x, nil
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("event") == "leave" {
		s.writeJSON(w, s.chart.Model().PointerLeave())
		return
	}

	x, err := parsePointer(query.Get("x"))
	if err != nil {
		log.WithError(err).Warn("pointer request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, s.chart.Model().PointerMove(x))
}

type seriesResponse struct {
	Key     string         `json:"key"`
	Color   string         `json:"color"`
	Samples []model.Sample `json:"samples"`
}

func (s *Server) handleSeries(w http.ResponseWriter, _ *http.Request) {
	m := s.chart.Model()
	response := make([]seriesResponse, 0, len(m.Groups()))
	for _, group := range m.Groups() {
		response = append(response, seriesResponse{
			Key:     group.Key,
			Color:   m.Color(group.Key),
			Samples: group.Samples,
		})
	}
	s.writeJSON(w, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Error(err)
	}
}
