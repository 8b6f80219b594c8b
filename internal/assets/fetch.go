package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

// ErrNoSource is returned by NoSource for every asset.
var ErrNoSource = errors.New("no asset source configured")

// DefaultMaxAssetSize bounds a single downloaded schema file.
const DefaultMaxAssetSize = 4 << 20

// ErrAssetTooLarge is returned when a download exceeds the size limit.
var ErrAssetTooLarge = errors.New("asset exceeds size limit")

// Fetcher retrieves the content of one support file.
type Fetcher interface {
	Fetch(ctx context.Context, v scorm.Version, p string) ([]byte, error)
}

// HTTPFetcher downloads assets from {BaseURL}/{version}/{path}.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
	// MaxSize caps one download; zero means DefaultMaxAssetSize.
	MaxSize int64
}

// NewHTTPFetcher returns an HTTPFetcher. A zero timeout leaves requests
// bounded only by the transport.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		MaxSize: DefaultMaxAssetSize,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, v scorm.Version, p string) ([]byte, error) {
	u, err := url.JoinPath(f.BaseURL, string(v), p)
	if err != nil {
		return nil, fmt.Errorf("building asset url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", u, resp.StatusCode)
	}

	limit := f.MaxSize
	if limit <= 0 {
		limit = DefaultMaxAssetSize
	}
	// One byte past the limit tells a full-size file from a truncated one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("fetching %s: %w (%d bytes)", u, ErrAssetTooLarge, limit)
	}
	return data, nil
}

// DirFetcher reads assets from {version}/{path} inside FS.
type DirFetcher struct {
	FS fs.FS
}

// NewDirFetcher returns a DirFetcher rooted at dir.
func NewDirFetcher(dir string) *DirFetcher {
	return &DirFetcher{FS: os.DirFS(dir)}
}

func (f *DirFetcher) Fetch(ctx context.Context, v scorm.Version, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(f.FS, string(v)+"/"+p)
	if err != nil {
		return nil, fmt.Errorf("reading asset %s: %w", p, err)
	}
	return data, nil
}

// NoSource fails every fetch, which yields an archive of placeholders.
type NoSource struct{}

func (NoSource) Fetch(context.Context, scorm.Version, string) ([]byte, error) {
	return nil, ErrNoSource
}

// FetchOrDefault fetches a and falls back to its placeholder on any error.
// It never fails.
func FetchOrDefault(ctx context.Context, f Fetcher, v scorm.Version, a Asset, logger *log.Logger) File {
	data, err := f.Fetch(ctx, v, a.Path)
	if err != nil {
		if logger != nil {
			logger.Warn("asset unavailable, using placeholder", "path", a.Path, "version", string(v), "err", err)
		}
		return File{Asset: a, Data: Placeholder(a.Path), Placeholder: true}
	}
	return File{Asset: a, Data: data}
}

// FetchAll retrieves every catalogue asset for v concurrently, at most
// limit at a time, and returns them in catalogue order. Every asset is
// present in the result.
func FetchAll(ctx context.Context, f Fetcher, v scorm.Version, limit int, logger *log.Logger) []File {
	if f == nil {
		f = NoSource{}
	}
	if limit < 1 {
		limit = 1
	}

	catalogue := Catalogue(v)
	files := make([]File, len(catalogue))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, a := range catalogue {
		g.Go(func() error {
			files[i] = FetchOrDefault(ctx, f, v, a, logger)
			return nil
		})
	}
	// Fallbacks mean no goroutine returns an error.
	_ = g.Wait()

	return files
}
