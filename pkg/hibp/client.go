// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"io"
	"net"
	"net/http"
	"regexp"
	"runtime"
	"strings"
	"time"
)

const (
	DefaultEndpoint  = "https://api.pwnedpasswords.com"
	DefaultTimeout   = 5 * time.Second
	defaultUserAgent = "golang-pwd-assessor/1.0"
	// A padded range response is a few hundred KiB at most.
	maxRangeBody = 4 * 1024 * 1024
)

var (
	sha1HexRe   = regexp.MustCompile(`^[a-fA-F\d]{40}$`)
	prefixRe    = regexp.MustCompile(`^[A-F\d]{5}$`)
	ErrBadHash  = errors.New("input is not a valid SHA1 Hexadecimal hash")
	ErrBadRange = errors.New("range prefix must be 5 hexadecimal characters")
	ErrTooLarge = errors.New("range response is too large")
)

// Result of a breach lookup. Errored is set when the corpus could not be queried, in
// which case Found is false but the password is NOT known to be clean.
type Result struct {
	Found   bool `json:"found"`
	Count   int  `json:"count"`
	Errored bool `json:"error,omitempty"`
}

// Client queries the Pwned Passwords range API. Only the first 5 characters of the
// SHA-1 hash are ever sent; the suffix is matched locally.
type Client struct {
	endpoint  string
	userAgent string
	padding   bool
	retryMax  int
	timeout   time.Duration
	cache     RangeCache
	stat      *Stats
	http      *retryablehttp.Client
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithTimeout bounds a single range request, retries included.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryMax enables retries on connection errors and 5xx/429 responses. The default
// is 0, a single attempt.
func WithRetryMax(retries int) Option {
	return func(c *Client) {
		c.retryMax = retries
	}
}

// WithPadding toggles the Add-Padding header, which makes every response roughly the
// same size so an observer can't guess the prefix from the response length.
func WithPadding(padding bool) Option {
	return func(c *Client) {
		c.padding = padding
	}
}

func WithCache(cache RangeCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint:  DefaultEndpoint,
		userAgent: defaultUserAgent,
		padding:   true,
		timeout:   DefaultTimeout,
		stat:      newStats(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = initHttpClient(c.retryMax, c.timeout)
	return c
}

func initHttpClient(retryMax int, timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	// Retry logging is far too chatty, failures are logged by the client itself.
	client.Logger = nil
	client.RetryMax = retryMax
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = timeout / 2

	client.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
			MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
		},
	}

	return client
}

func (c *Client) Stats() *Stats {
	return c.stat
}

// Check looks the password up in the corpus. It never fails: a lookup that could not
// complete comes back with Errored set.
func (c *Client) Check(ctx context.Context, password string) Result {
	prefix, suffix := Split(password)
	return c.lookup(ctx, prefix, suffix)
}

// CheckHash is Check for a caller that already has the SHA-1 hex digest.
func (c *Client) CheckHash(ctx context.Context, hash string) (Result, error) {
	if !sha1HexRe.MatchString(hash) {
		return Result{}, ErrBadHash
	}

	hash = strings.ToUpper(hash)
	return c.lookup(ctx, hash[:prefixLen], hash[prefixLen:]), nil
}

func (c *Client) lookup(ctx context.Context, prefix, suffix string) Result {
	body, err := c.Range(ctx, prefix)
	if err != nil {
		c.stat.Failure()
		log.Warn().Err(err).Msg("breach corpus lookup failed")
		return Result{Errored: true}
	}

	found, count, err := FindSuffix(body, suffix)
	if err != nil {
		c.stat.Failure()
		log.Warn().Err(err).Msg("breach corpus lookup failed")
		return Result{Errored: true}
	}
	return Result{Found: found, Count: count}
}

// Range fetches every "SUFFIX:COUNT" line for a hash prefix.
func (c *Client) Range(ctx context.Context, prefix string) ([]byte, error) {
	prefix = strings.ToUpper(prefix)
	if !prefixRe.MatchString(prefix) {
		return nil, ErrBadRange
	}

	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, prefix); ok {
			c.stat.CacheHit()
			return body, nil
		}
	}

	body, err := c.downloadRange(ctx, prefix)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(ctx, prefix, body)
	}
	return body, nil
}

func (c *Client) rangeHttpRequest(ctx context.Context, prefix string) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/range/%s", c.endpoint, prefix), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	if c.padding {
		req.Header.Set("Add-Padding", "true")
	}
	return req, nil
}

func (c *Client) downloadRange(ctx context.Context, prefix string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	timer := time.Now()
	req, err := c.rangeHttpRequest(ctx, prefix)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing range response body")
		}
	}(res.Body)

	c.stat.RequestComplete(res, time.Since(timer).Milliseconds())
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("range request failed with status [%d] %s", res.StatusCode, res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxRangeBody+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxRangeBody {
		return nil, ErrTooLarge
	}
	return body, nil
}
