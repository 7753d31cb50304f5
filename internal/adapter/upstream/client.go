// Package upstream is the shared fasthttp transport used by the third-party API adapters.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"swapbridge/internal/metrics"
	"swapbridge/internal/pkg/apperrors"
	"swapbridge/internal/pkg/ratelimit"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Client performs JSON requests against one upstream service.
type Client struct {
	http    *fasthttp.Client
	limiter *ratelimit.Limiter
	service string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a client for service. A nil limiter disables rate limiting.
func NewClient(service string, timeout time.Duration, limiter *ratelimit.Limiter, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &fasthttp.Client{Name: "swapbridge"},
		limiter: limiter,
		service: service,
		timeout: timeout,
		logger:  logger.Named("Upstream").With(zap.String("service", service)),
	}
}

// GetJSON issues a GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	return c.do(ctx, fasthttp.MethodGet, url, nil, out)
}

// PostJSON marshals body, issues a POST and decodes the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s request: %v", apperrors.ErrInternal, c.service, err)
	}
	return c.do(ctx, fasthttp.MethodPost, url, payload, out)
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		c.observe("rate_limited", 0)
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAcceptEncoding, "gzip")
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if payload != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		requestTimeout := time.Until(deadline)
		if requestTimeout <= 0 {
			c.observe("timeout", 0)
			return fmt.Errorf("%w: %s request deadline already passed", apperrors.ErrTimeout, c.service)
		}
		if requestTimeout < timeout {
			timeout = requestTimeout
		}
	}

	c.logger.Debug("Sending upstream request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Duration("timeout", timeout),
	)

	start := time.Now()
	requestErr := c.http.DoTimeout(req, resp, timeout)
	elapsed := time.Since(start)

	if requestErr != nil {
		if errors.Is(requestErr, fasthttp.ErrTimeout) {
			c.observe("timeout", elapsed)
			c.logger.Warn("Upstream request timed out", zap.String("url", url), zap.Duration("timeout", timeout))
			return fmt.Errorf("%w: %s request timed out after %v: %v",
				apperrors.ErrTimeout, c.service, timeout, requestErr,
			)
		}
		c.observe("transport_error", elapsed)
		c.logger.Error("Failed to execute upstream request", zap.String("url", url), zap.Error(requestErr))
		return fmt.Errorf("%w: failed to execute request to %s: %v",
			apperrors.ErrExternalServiceFailure, c.service, requestErr,
		)
	}

	body, err := responseBody(resp)
	if err != nil {
		c.observe("decode_error", elapsed)
		c.logger.Error("Failed to gunzip upstream response body", zap.Error(err))
		return fmt.Errorf("%w: failed to decompress %s response: %v",
			apperrors.ErrExternalServiceFailure, c.service, err,
		)
	}

	status := resp.StatusCode()
	if status == fasthttp.StatusNotFound {
		c.observe("not_found", elapsed)
		c.logger.Warn("Upstream reported not found", zap.String("url", url), zap.ByteString("body", sample(body)))
		return fmt.Errorf("%w: %s reported not found", apperrors.ErrNotFound, c.service)
	}
	if status == fasthttp.StatusTooManyRequests {
		c.observe("rate_limited", elapsed)
		c.logger.Warn("Upstream rate limited the request", zap.String("url", url))
		return fmt.Errorf("%w: %s returned status 429", apperrors.ErrExternalServiceFailure, c.service)
	}
	if status != fasthttp.StatusOK {
		c.observe("bad_status", elapsed)
		c.logger.Error("Upstream returned non-OK status",
			zap.String("url", url),
			zap.Int("statusCode", status),
			zap.ByteString("body", sample(body)),
		)
		return fmt.Errorf("%w: %s returned status %d", apperrors.ErrExternalServiceFailure, c.service, status)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			c.observe("decode_error", elapsed)
			c.logger.Error("Failed to unmarshal upstream response",
				zap.Error(err), zap.ByteString("bodySample", sample(body)),
			)
			return fmt.Errorf("%w: failed to parse %s response: %v",
				apperrors.ErrExternalServiceFailure, c.service, err,
			)
		}
	}

	c.observe("ok", elapsed)
	return nil
}

func (c *Client) observe(outcome string, elapsed time.Duration) {
	metrics.UpstreamRequestsTotal.WithLabelValues(c.service, outcome).Inc()
	if elapsed > 0 {
		metrics.UpstreamLatency.WithLabelValues(c.service).Observe(elapsed.Seconds())
	}
}

func responseBody(resp *fasthttp.Response) ([]byte, error) {
	if bytes.EqualFold(resp.Header.Peek(fasthttp.HeaderContentEncoding), []byte("gzip")) {
		return resp.BodyGunzip()
	}
	return resp.Body(), nil
}

func sample(body []byte) []byte {
	return body[:min(1024, len(body))]
}
