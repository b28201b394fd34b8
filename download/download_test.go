package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = "month,fuel_type,number\n2016-01-01,Petrol,4024\n"

func TestDownloader_Fetch(t *testing.T) {
	t.Run("retries server errors", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()

		downloader := NewDownloader(WithBackoff(time.Millisecond, 5*time.Millisecond))
		content, err := downloader.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, body, string(content))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		downloader := NewDownloader(WithAttempts(2), WithBackoff(time.Millisecond, time.Millisecond))
		_, err := downloader.Fetch(context.Background(), server.URL)
		require.ErrorIs(t, err, ErrStatus)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		downloader := NewDownloader(WithBackoff(time.Millisecond, time.Millisecond))
		_, err := downloader.Fetch(context.Background(), server.URL)
		require.ErrorIs(t, err, ErrStatus)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		downloader := NewDownloader(WithBackoff(time.Second, time.Second))
		_, err := downloader.Fetch(ctx, server.URL)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestDownloader_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "data.csv")
	err := NewDownloader().Download(context.Background(), server.URL, output)
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, body, string(content))
}
