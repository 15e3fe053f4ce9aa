package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/magnitronlab/preorder-bot/core/telegram/netutil"
)

// HTTPClientOptions tunes the client used for Bot API calls. Zero values select defaults.
type HTTPClientOptions struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	Base          http.RoundTripper
}

func (o HTTPClientOptions) withDefaults() HTTPClientOptions {
	if o.Timeout <= 0 {
		// Must exceed the long poll timeout or getUpdates is cut short.
		o.Timeout = 30 * time.Second
	}
	if o.RetryAttempts < 0 {
		o.RetryAttempts = 0
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 2 * time.Second
	}
	if o.Base == nil {
		o.Base = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: time.Second,
		}
	}
	return o
}

// BuildHTTPClient returns an HTTP client that retries transient network failures.
func BuildHTTPClient(opts HTTPClientOptions) *http.Client {
	opts = opts.withDefaults()
	return &http.Client{
		Timeout: opts.Timeout,
		Transport: &retryTransport{
			base:       opts.Base,
			maxRetries: opts.RetryAttempts,
			backoff:    opts.RetryBackoff,
		},
	}
}

type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempts := t.maxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		curr := req
		if attempt > 1 {
			// A consumed body cannot be replayed.
			if req.Body != nil && req.GetBody == nil {
				return nil, lastErr
			}
			curr = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				curr.Body = body
			}
		}

		resp, err := t.base.RoundTrip(curr)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt == attempts || !netutil.ShouldRetry(err) {
			break
		}

		timer := time.NewTimer(t.backoff * time.Duration(attempt))
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}
