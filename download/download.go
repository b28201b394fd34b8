package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jpillora/backoff"
	"github.com/schollz/progressbar/v3"

	"github.com/rodrigo-brito/fuelchart/tools/log"
)

// 从远程地址下载 CSV 数据的工具，失败时按指数退避重试

const defaultAttempts = 5

// ErrStatus 服务端返回了非 2xx 状态码
var ErrStatus = errors.New("unexpected status")

// Downloader 下载器
type Downloader struct {
	client   *http.Client
	attempts int
	minWait  time.Duration
	maxWait  time.Duration
	progress bool
}

// Option 设置下载器参数的选项
type Option func(*Downloader)

// WithClient sets the HTTP client, http.DefaultClient by default
func WithClient(client *http.Client) Option {
	return func(d *Downloader) {
		d.client = client
	}
}

// WithAttempts 设置最大尝试次数
func WithAttempts(attempts int) Option {
	return func(d *Downloader) {
		if attempts > 0 {
			d.attempts = attempts
		}
	}
}

// WithBackoff sets the wait interval between attempts
func WithBackoff(min, max time.Duration) Option {
	return func(d *Downloader) {
		d.minWait = min
		d.maxWait = max
	}
}

// WithProgress 在终端显示下载进度条
func WithProgress() Option {
	return func(d *Downloader) {
		d.progress = true
	}
}

// NewDownloader 创建一个新的下载器实例
func NewDownloader(options ...Option) Downloader {
	d := Downloader{
		client:   http.DefaultClient,
		attempts: defaultAttempts,
		minWait:  500 * time.Millisecond,
		maxWait:  10 * time.Second,
	}
	for _, option := range options {
		option(&d)
	}
	return d
}

// retryableError 可以重试的错误（网络错误或 5xx）
type retryableError struct {
	err error
}

func (r retryableError) Error() string { return r.err.Error() }
func (r retryableError) Unwrap() error { return r.err }

// Fetch 下载 url 的内容，网络错误和 5xx 会重试，4xx 直接失败
// Fetch returns the body of url. Network errors and 5xx responses are retried with
// exponential backoff; other statuses fail at once.
func (d Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	wait := &backoff.Backoff{
		Min:    d.minWait,
		Max:    d.maxWait,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		body, err := d.fetch(ctx, url)
		if err == nil {
			return body, nil
		}

		var retryable retryableError
		if !errors.As(err, &retryable) {
			return nil, err
		}
		lastErr = err

		if attempt == d.attempts {
			break
		}

		delay := wait.Duration()
		log.Warnf("download %s failed (attempt %d/%d), retrying in %s: %v", url, attempt, d.attempts, delay, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("download %s: giving up after %d attempts: %w", url, d.attempts, lastErr)
}

func (d Downloader) fetch(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	response, err := d.client.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, retryableError{err: err}
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusInternalServerError {
		return nil, retryableError{err: fmt.Errorf("%w: %s", ErrStatus, response.Status)}
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, response.Status)
	}

	var buffer bytes.Buffer
	var writer io.Writer = &buffer
	if d.progress {
		bar := progressbar.DefaultBytes(response.ContentLength, "downloading")
		defer func() {
			if err := bar.Close(); err != nil {
				log.Warnf("close progressbar fail: %v", err)
			}
		}()
		writer = io.MultiWriter(&buffer, bar)
	}

	if _, err := io.Copy(writer, response.Body); err != nil {
		return nil, retryableError{err: err}
	}
	return buffer.Bytes(), nil
}

// Download 下载 url 并保存到 output 文件
func (d Downloader) Download(ctx context.Context, url, output string) error {
	body, err := d.Fetch(ctx, url)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, body, 0o644); err != nil {
		return err
	}

	log.Infof("Downloaded %d bytes from %s to %s", len(body), url, output)
	return nil
}
