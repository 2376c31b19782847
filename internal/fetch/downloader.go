// Package fetch retrieves task documents into a local temp directory.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrFileTooLarge marks downloads over the configured size cap.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

const defaultMaxFileSize = 50 << 20 // 50 MiB

var knownExtensions = map[string]struct{}{
	".doc": {}, ".docx": {},
	".xls": {}, ".xlsx": {},
	".txt": {}, ".md": {}, ".csv": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {},
	".pdf": {}, ".ppt": {}, ".pptx": {},
}

// Downloader fetches http(s) and file URLs with a size cap.
type Downloader struct {
	httpClient *http.Client
	tempDir    string
	maxSize    int64
	logger     zerolog.Logger
}

type Options struct {
	TempDir     string
	MaxFileSize int64
	Timeout     time.Duration
	HTTPClient  *http.Client
}

func NewDownloader(opts Options, logger zerolog.Logger) (*Downloader, error) {
	if opts.TempDir == "" {
		opts.TempDir = filepath.Join(os.TempDir(), "question-hub-documents")
	}
	if err := os.MkdirAll(opts.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = defaultMaxFileSize
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Downloader{
		httpClient: client,
		tempDir:    opts.TempDir,
		maxSize:    opts.MaxFileSize,
		logger:     logger.With().Str("component", "downloader").Logger(),
	}, nil
}

// Fetch retrieves fileURL into the temp directory and returns the local
// path. The caller owns the file and releases it with Cleanup.
func (d *Downloader) Fetch(ctx context.Context, fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}

	localPath := filepath.Join(d.tempDir, d.fileName(parsed))

	switch parsed.Scheme {
	case "http", "https":
		if err := d.download(ctx, fileURL, localPath); err != nil {
			return "", err
		}
	case "file", "":
		if err := d.copyLocal(parsed.Path, localPath); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}

	d.logger.Info().Str("url", fileURL).Str("path", localPath).Msg("file fetched")
	return localPath, nil
}

// Cleanup removes a fetched file. Failures are logged, never returned: a
// leftover temp file must not fail the task.
func (d *Downloader) Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		d.logger.Warn().Err(err).Str("path", path).Msg("temp file cleanup failed")
	}
}

// fileName derives a local name from the URL path, query stripped. Files
// without a recognizable extension default to .docx, the dominant format.
func (d *Downloader) fileName(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "document.docx"
	}
	if _, ok := knownExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
		name += ".docx"
	}
	return name
}

func (d *Downloader) download(ctx context.Context, fileURL, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}
	if resp.ContentLength > d.maxSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, resp.ContentLength, d.maxSize)
	}

	return d.writeCapped(localPath, resp.Body)
}

func (d *Downloader) copyLocal(srcPath, localPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open local file: %w", err)
	}
	defer src.Close()
	return d.writeCapped(localPath, src)
}

// writeCapped copies at most maxSize bytes; one byte more means the source
// is over the cap and the partial file is discarded.
func (d *Downloader) writeCapped(localPath string, src io.Reader) error {
	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, d.maxSize+1))
	if err != nil {
		os.Remove(localPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if written > d.maxSize {
		os.Remove(localPath)
		return fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, d.maxSize)
	}
	return nil
}
