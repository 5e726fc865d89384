package fhir

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "feasibility/internal/platform/errors"
	"feasibility/internal/platform/logger"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUA        = "feasibility-collector"
	defaultMaxRetry  = 3
	defaultRetryBase = 250 * time.Millisecond
	maxBackoff       = 10 * time.Second
	maxBodyBytes     = 8 << 20

	mediaType = "application/fhir+json"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// BearerToken is sent as Authorization when set
	BearerToken string

	// Retry config for transport failures and transient 5xx responses
	MaxRetries int
	RetryBase  time.Duration

	// HTTPClient overrides the default client, Timeout is then ignored
	HTTPClient *http.Client
}

// Client is a read-only FHIR REST client with retries
type Client struct {
	http  *http.Client
	base  *url.URL
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

var _ ResourceReader = (*Client)(nil)

// NewClient validates o and creates a Client
func NewClient(o Options) (*Client, error) {
	base, err := parseBase(o.BaseURL)
	if err != nil {
		return nil, err
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		http:  hc,
		base:  base,
		opts:  o,
		log:   *logger.Named("fhir"),
		now:   time.Now,
		sleep: sleepCtx,
	}, nil
}

func parseBase(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "fhir: base url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "fhir: invalid base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "fhir: base url scheme %q not supported", u.Scheme)
	}
	if u.Host == "" {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "fhir: base url has no host")
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// BaseURL returns the normalized REST base
func (c *Client) BaseURL() string { return c.base.String() }

// Read fetches a single resource by type and logical id
func (c *Client) Read(ctx context.Context, resourceType, id string) (Resource, error) {
	if resourceType == "" || id == "" {
		return Resource{}, perr.InvalidArgf("fhir: read needs type and id, got %q/%q", resourceType, id)
	}
	body, err := c.get(ctx, "/"+url.PathEscape(resourceType)+"/"+url.PathEscape(id), nil)
	if err != nil {
		return Resource{}, err
	}
	res, err := Parse(body)
	if err != nil {
		return Resource{}, err
	}
	if res.Type != resourceType {
		return Resource{}, perr.InvalidArgf("fhir: read %s/%s returned %s", resourceType, id, res.Type)
	}
	return res, nil
}

// Search runs a type level search and returns the result bundle
func (c *Client) Search(ctx context.Context, resourceType string, params url.Values) (*Bundle, error) {
	body, err := c.get(ctx, "/"+url.PathEscape(resourceType), params)
	if err != nil {
		return nil, err
	}
	res, err := Parse(body)
	if err != nil {
		return nil, err
	}
	if res.Bundle == nil {
		return nil, perr.InvalidArgf("fhir: search %s returned %s", resourceType, res.Type)
	}
	return res.Bundle, nil
}

// get issues a GET with auth headers and retries, returning the body of a 200
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := *c.base
	u.Path = c.base.Path + path
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	target := u.String()

	b := newBackoff(c.opts.RetryBase, maxBackoff)
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "fhir request cancelled")
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "fhir new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", mediaType)
		if c.opts.BearerToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.BearerToken)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil || !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "fhir get %s failed", path)
			}
			back := b.NextBackOff()
			c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).Msg("fhir transport error retrying")
			if err := c.sleep(ctx, back); err != nil {
				return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "fhir request cancelled")
			}
			attempts++
			continue
		}

		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("fhir http response")

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "fhir read body %s", path)
			}
			return body, nil
		case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
			_ = drainAndClose(resp.Body)
			return nil, perr.NotFoundf("fhir %s not found", path)
		case resp.StatusCode == http.StatusUnauthorized:
			_ = drainAndClose(resp.Body)
			return nil, perr.Unauthorizedf("fhir %s unauthorized", path)
		case resp.StatusCode == http.StatusForbidden:
			_ = drainAndClose(resp.Body)
			return nil, perr.Forbiddenf("fhir %s forbidden", path)
		case isTransient(resp.StatusCode):
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.Newf(perr.ErrorCodeUnavailable, "fhir transient status %d for %s", resp.StatusCode, path)
			}
			back := b.NextBackOff()
			c.log.Warn().Int("status", resp.StatusCode).Dur("retry_in", back).Int("attempt", attempts).Msg("fhir transient error retrying")
			_ = drainAndClose(resp.Body)
			if err := c.sleep(ctx, back); err != nil {
				return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "fhir request cancelled")
			}
			attempts++
			continue
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Newf(perr.ErrorCodeUnknown, "fhir unexpected status %d body %s", resp.StatusCode, string(body))
		}
	}
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
