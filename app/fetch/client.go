package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAccept = "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5"

// Options controls a Client. Zero values fall back to the documented defaults.
type Options struct {
	Timeout        time.Duration // default 30s
	MaxRedirects   int           // default 5
	SkipTLSVerify  bool
	UserAgent      string
	Accept         string
}

// Client issues a single GET per feed URL. No retries, no link discovery.
type Client struct {
	httpClient *http.Client
	userAgent  string
	accept     string
}

// NewClient creates an HTTP fetch client with bounded timeout and redirects.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 5
	}
	if opts.Accept == "" {
		opts.Accept = defaultAccept
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.SkipTLSVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	maxRedirects := opts.MaxRedirects
	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
		accept:    opts.Accept,
	}
}

// Fetch retrieves the raw bytes of a feed URL. Failures come back as a typed
// *Error distinguishing transport failure, non-2xx status and empty body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: err}
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", c.accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindStatus, URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if len(data) == 0 {
		return nil, &Error{Kind: KindEmptyBody, URL: url}
	}

	return data, nil
}
