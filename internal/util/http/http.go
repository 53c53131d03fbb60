// Package http provides the HTTP fetcher used to retrieve remote images.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/jmylchreest/hexit/internal/security"
)

const (
	// BrowserUserAgent is sent with every request. Some image hosts reject
	// clients that do not look like a browser.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// DefaultAccept is the Accept header sent unless overridden.
	DefaultAccept = "image/avif,image/webp,image/apng,image/*,*/*;q=0.8"

	// maxRedirects matches the net/http default.
	maxRedirects = 10
)

// FetchOptions configures HTTP fetch behavior.
type FetchOptions struct {
	// Timeout specifies the HTTP request timeout.
	// If zero, no client timeout is set and the transport defaults apply.
	Timeout time.Duration

	// MaxBytes caps the response body size. Zero means unlimited.
	MaxBytes int64

	// UserAgent overrides BrowserUserAgent when set.
	UserAgent string

	// Headers specifies additional HTTP headers to send with the request.
	Headers map[string]string

	// BlockPrivateHosts rejects URLs that name loopback, private or
	// link-local addresses.
	BlockPrivateHosts bool

	// Client is used instead of a fresh client when non-nil.
	Client *http.Client
}

// StatusError is returned when the remote server answers with a non-2xx code.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// NetworkError is returned when the request could not complete.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Fetch retrieves content from a URL with context support.
// It sets a browser-like User-Agent and returns the raw body on any 2xx.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	if err := security.ValidateImageURL(url, opts.BlockPrivateHosts); err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	client := opts.Client
	if client == nil {
		client = newClient(opts)
	} else if client.CheckRedirect == nil {
		c := *client
		c.CheckRedirect = checkRedirect(opts.BlockPrivateHosts)
		client = &c
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = BrowserUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", DefaultAccept)

	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body io.Reader = resp.Body
	if opts.MaxBytes > 0 {
		// Read one byte past the limit so oversize bodies are detectable.
		body = io.LimitReader(resp.Body, opts.MaxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if opts.MaxBytes > 0 && int64(len(data)) > opts.MaxBytes {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("response body exceeds %d bytes", opts.MaxBytes)}
	}

	return data, nil
}

// newClient builds a client that validates every redirect hop. With
// BlockPrivateHosts set, its dialer also checks the resolved address.
func newClient(opts FetchOptions) *http.Client {
	client := &http.Client{
		Timeout:       opts.Timeout,
		CheckRedirect: checkRedirect(opts.BlockPrivateHosts),
	}
	if opts.BlockPrivateHosts {
		dialer := &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
			Control:   security.DialControl,
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DialContext = dialer.DialContext
		client.Transport = transport
	}
	return client
}

// checkRedirect applies the URL rules of the first request to every
// redirect target.
func checkRedirect(blockPrivate bool) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errors.New("stopped after 10 redirects")
		}
		if err := security.ValidateImageURL(req.URL.String(), blockPrivate); err != nil {
			return fmt.Errorf("redirect rejected: %w", err)
		}
		return nil
	}
}

// Fetcher is a reusable Fetch with fixed options.
type Fetcher struct {
	opts FetchOptions
}

// NewFetcher creates a Fetcher. A shared client is created once so
// connections are reused between requests.
func NewFetcher(opts FetchOptions) *Fetcher {
	if opts.Client == nil {
		opts.Client = newClient(opts)
	}
	return &Fetcher{opts: opts}
}

// Fetch retrieves url with the fetcher's options.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return Fetch(ctx, url, f.opts)
}
