// Package httputil fetches logo and tile sources over HTTP.
//
// # Fetching
//
// [Fetcher] downloads a URL into memory with a size limit and retries
// transient failures:
//
//	f := httputil.NewFetcher(nil)
//	data, name, err := f.Fetch(ctx, "https://example.com/logo.svg")
//
// Network errors, 5xx responses and 429 rate limits are retried; other
// status codes fail immediately with [errors.ErrCodeNotFound] or
// [errors.ErrCodeInvalidInput].
//
// # Retry
//
// [Retry] runs any operation with exponential backoff. Only errors wrapped
// in [RetryableError] are retried:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
package httputil
