package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/logomosaic/pkg/buildinfo"
	errs "github.com/matzehuels/logomosaic/pkg/errors"
)

const (
	// DefaultMaxBytes caps a single download.
	DefaultMaxBytes = 64 << 20

	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 30 * time.Second

	defaultAttempts = 3
)

// Fetcher downloads remote sources.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
	Attempts int
	Delay    time.Duration
}

// NewFetcher returns a fetcher using client, or a client with
// [DefaultTimeout] when nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Fetcher{
		Client:   client,
		MaxBytes: DefaultMaxBytes,
		Attempts: defaultAttempts,
		Delay:    time.Second,
	}
}

// IsURL reports whether s names an http or https resource.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads rawURL and returns its body and a file name derived from
// the URL path.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, "", errs.New(errs.ErrCodeInvalidPath, "invalid url: %q", rawURL)
	}

	var data []byte
	err = Retry(ctx, f.Attempts, f.Delay, func() error {
		data, err = f.get(ctx, u.String())
		return err
	})
	if err != nil {
		if errs.GetCode(err) != "" {
			return nil, "", err
		}
		return nil, "", errs.Wrap(errs.ErrCodeNetwork, err, "fetch %s", rawURL)
	}
	return data, fileName(u), nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	resp, err := f.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &RetryableError{Err: fmt.Errorf("%s: %s", rawURL, resp.Status)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, errs.New(errs.ErrCodeNotFound, "%s: %s", rawURL, resp.Status)
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s: %s", rawURL, resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	if int64(len(data)) > limit {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s exceeds %d bytes", rawURL, limit)
	}
	return data, nil
}

// fileName returns the last path element of u, or its host when the path
// is empty.
func fileName(u *url.URL) string {
	if base := path.Base(u.Path); base != "/" && base != "." && base != "" {
		return base
	}
	return u.Host
}
