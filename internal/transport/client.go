// Package transport provides the shared outbound HTTP client every source
// adapter calls through: per-bucket rate limiting, a fixed retry schedule,
// and the SEC-mandated User-Agent check.
package transport

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/komsit37/fast10k/internal/config"
	"github.com/komsit37/fast10k/internal/errs"
)

// Bucket identifies which logical host a request is spaced against. EDINET
// gets two buckets (metadata vs. payload downloads) since each carries its
// own minimum-spacing default.
type Bucket string

const (
	BucketEDGAR          Bucket = "edgar"
	BucketEDINETMeta     Bucket = "edinet"
	BucketEDINETDownload Bucket = "edinet-download"
)

const (
	maxAttempts  = 3
	firstBackoff = 500 * time.Millisecond
	maxBackoff   = 4 * time.Second
)

// retriableStatus is the set of HTTP statuses worth retrying. Everything
// else — 4xx other than these, and successful responses — is returned to
// the caller as-is.
var retriableStatus = map[int]bool{
	408: true,
	425: true,
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Client is the shared HTTP layer. One instance is constructed per process
// and handed to every source adapter.
type Client struct {
	rest      *resty.Client
	userAgent string
	limiters  map[Bucket]*rate.Limiter
	log       *logrus.Logger
}

// NewClient builds the shared client from config, one rate.Limiter per
// bucket with burst=1 (non-jittered, strictly spaced).
// A missing User-Agent is a configuration error caught here rather than
// deferred to the first failed EDGAR call.
func NewClient(cfg *config.Config, log *logrus.Logger) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, &errs.ConfigError{Key: "user_agent", Detail: "required for SEC EDGAR compliance"}
	}

	rest := resty.New().SetTimeout(time.Duration(cfg.HTTPTimeoutSeconds) * time.Second)

	return &Client{
		rest:      rest,
		userAgent: cfg.UserAgent,
		log:       log,
		limiters: map[Bucket]*rate.Limiter{
			BucketEDGAR:          rate.NewLimiter(rate.Every(time.Duration(cfg.EdgarAPIDelayMs)*time.Millisecond), 1),
			BucketEDINETMeta:     rate.NewLimiter(rate.Every(time.Duration(cfg.EdinetAPIDelayMs)*time.Millisecond), 1),
			BucketEDINETDownload: rate.NewLimiter(rate.Every(time.Duration(cfg.EdinetDownloadDelayMs)*time.Millisecond), 1),
		},
	}, nil
}

// Get issues an HTTP GET against bucket's rate limit, retrying per the
// fixed schedule. headers are merged on top of the
// client's defaults; for BucketEDGAR the User-Agent header is always set
// from config, overriding anything the caller passes.
func (c *Client) Get(ctx context.Context, bucket Bucket, url string, headers map[string]string) ([]byte, error) {
	limiter, ok := c.limiters[bucket]
	if !ok {
		limiter = c.limiters[BucketEDGAR]
	}

	var lastErr error
	var lastStatus int
	backoff := firstBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, &errs.CancellationError{Op: "transport.Get " + url}
		}

		req := c.rest.R().SetContext(ctx)
		for k, v := range headers {
			req.SetHeader(k, v)
		}
		if bucket == BucketEDGAR {
			req.SetHeader("User-Agent", c.userAgent)
		} else if req.Header.Get("User-Agent") == "" {
			req.SetHeader("User-Agent", c.userAgent)
		}

		resp, err := req.Get(url)
		if err != nil {
			lastErr = err
			c.log.WithFields(logrus.Fields{"url": url, "attempt": attempt, "err": err}).
				Warn("transport request failed")
			if attempt < maxAttempts {
				if !sleepOrDone(ctx, backoff) {
					return nil, &errs.CancellationError{Op: "transport.Get " + url}
				}
				backoff = nextBackoff(backoff)
			}
			continue
		}

		lastStatus = resp.StatusCode()
		if resp.IsSuccess() {
			return resp.Body(), nil
		}
		if !retriableStatus[lastStatus] {
			return nil, &errs.TransportError{URL: url, StatusCode: lastStatus, Attempts: attempt}
		}

		c.log.WithFields(logrus.Fields{"url": url, "attempt": attempt, "status": lastStatus}).
			Warn("transport request returned a retriable status")
		if attempt < maxAttempts {
			if !sleepOrDone(ctx, backoff) {
				return nil, &errs.CancellationError{Op: "transport.Get " + url}
			}
			backoff = nextBackoff(backoff)
		}
	}

	return nil, &errs.TransportError{URL: url, StatusCode: lastStatus, Attempts: maxAttempts, Err: lastErr}
}

// GetReader issues a Get and wraps the result in an io.ReadCloser. The whole
// body is read into memory by Get before it is wrapped, so the payload is
// buffered, not streamed.
func (c *Client) GetReader(ctx context.Context, bucket Bucket, url string, headers map[string]string) (io.ReadCloser, error) {
	body, err := c.Get(ctx, bucket, url, headers)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func nextBackoff(cur time.Duration) time.Duration {
	next := cur * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
