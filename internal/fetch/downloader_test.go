package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDownloader(t *testing.T, maxSize int64) *Downloader {
	t.Helper()
	d, err := NewDownloader(Options{
		TempDir:     t.TempDir(),
		MaxFileSize: maxSize,
	}, zerolog.Nop())
	require.NoError(t, err)
	return d
}

func TestFetchDownloadsOverHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1.What is 2+2?"))
	}))
	defer server.Close()

	d := newTestDownloader(t, 1024)
	path, err := d.Fetch(context.Background(), server.URL+"/exams/midterm.txt?sig=abc")
	require.NoError(t, err)

	assert.Equal(t, "midterm.txt", filepath.Base(path), "query string must not leak into the file name")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1.What is 2+2?", string(data))

	d.Cleanup(path)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer server.Close()

	d := newTestDownloader(t, 1024)
	_, err := d.Fetch(context.Background(), server.URL+"/big.txt")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	d := newTestDownloader(t, 1024)
	_, err := d.Fetch(context.Background(), server.URL+"/missing.docx")
	assert.Error(t, err)
}

func TestFetchCopiesLocalFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "exam.txt")
	require.NoError(t, os.WriteFile(src, []byte("local content"), 0o644))

	d := newTestDownloader(t, 1024)
	path, err := d.Fetch(context.Background(), "file://"+src)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "local content", string(data))
}

func TestFileNameDefaultsExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("content"))
	}))
	defer server.Close()

	d := newTestDownloader(t, 1024)
	path, err := d.Fetch(context.Background(), server.URL+"/exams/final")
	require.NoError(t, err)
	assert.Equal(t, "final.docx", filepath.Base(path))
}
