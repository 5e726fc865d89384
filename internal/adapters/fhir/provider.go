package fhir

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	perr "feasibility/internal/platform/errors"
	"feasibility/internal/platform/logger"
)

// Handler receives one decoded document from a subscription
type Handler func(ctx context.Context, res Resource)

// ResourceReader is the request/response side of the DSF FHIR server
type ResourceReader interface {
	Read(ctx context.Context, resourceType, id string) (Resource, error)
}

// Subscription is the push side of the DSF FHIR server
type Subscription interface {
	// Subscribe installs the only handler; a second call fails
	Subscribe(h Handler) error
	// Listen blocks, delivering documents to the handler until ctx is done
	Listen(ctx context.Context) error
}

// Provider hands out the two FHIR clients the collector needs
type Provider interface {
	WebserviceClient(ctx context.Context) (ResourceReader, error)
	WebsocketClient(ctx context.Context) (Subscription, error)
}

// Config is everything DSFProvider needs to build its clients
type Config struct {
	BaseURL              string
	WebsocketURL         string
	SubscriptionID       string
	SubscriptionCriteria string
	BearerToken          string
	Timeout              time.Duration
	MaxRetries           int
	Workers              int
}

// DefaultCriteria selects completed tasks, which is what result tasks arrive as
const DefaultCriteria = "Task?status=completed"

// DSFProvider builds clients for a DSF FHIR endpoint
// Clients are created once and shared
type DSFProvider struct {
	cfg Config
	log logger.Logger

	mu     sync.Mutex
	client *Client
	ws     *Websocket
}

var _ Provider = (*DSFProvider)(nil)

// NewProvider returns a provider for cfg; nothing is dialed yet
func NewProvider(cfg Config) *DSFProvider {
	if cfg.SubscriptionCriteria == "" {
		cfg.SubscriptionCriteria = DefaultCriteria
	}
	return &DSFProvider{cfg: cfg, log: *logger.Named("fhir-provider")}
}

// WebserviceClient returns the REST client
func (p *DSFProvider) WebserviceClient(_ context.Context) (ResourceReader, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.restLocked()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (p *DSFProvider) restLocked() (*Client, error) {
	if p.client != nil {
		return p.client, nil
	}
	c, err := NewClient(Options{
		BaseURL:     p.cfg.BaseURL,
		Timeout:     p.cfg.Timeout,
		BearerToken: p.cfg.BearerToken,
		MaxRetries:  p.cfg.MaxRetries,
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "fhir: provision webservice client")
	}
	p.client = c
	return c, nil
}

// WebsocketClient returns the websocket subscription
// Without a configured subscription id one is discovered through the REST client
func (p *DSFProvider) WebsocketClient(ctx context.Context) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ws != nil {
		return p.ws, nil
	}

	rest, err := p.restLocked()
	if err != nil {
		return nil, err
	}

	wsURL := p.cfg.WebsocketURL
	if wsURL == "" {
		wsURL, err = DeriveWebsocketURL(rest.BaseURL())
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "fhir: provision websocket client")
		}
	}

	subID := p.cfg.SubscriptionID
	if subID == "" {
		subID, err = FindSubscriptionID(ctx, rest, p.cfg.SubscriptionCriteria)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "fhir: provision websocket client")
		}
		p.log.Info().Str("subscription_id", subID).Str("criteria", p.cfg.SubscriptionCriteria).Msg("fhir subscription discovered")
	}

	ws, err := NewWebsocket(WebsocketOptions{
		URL:            wsURL,
		SubscriptionID: subID,
		BearerToken:    p.cfg.BearerToken,
		Workers:        p.cfg.Workers,
	})
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "fhir: provision websocket client")
	}
	p.ws = ws
	return ws, nil
}

// DeriveWebsocketURL maps https://host/fhir to wss://host/fhir/ws
func DeriveWebsocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeInvalidArgument, "fhir: invalid base url")
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", perr.InvalidArgf("fhir: cannot derive websocket url from scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = ""
	return u.String(), nil
}

// FindSubscriptionID looks up the active websocket Subscription for criteria
func FindSubscriptionID(ctx context.Context, c *Client, criteria string) (string, error) {
	b, err := c.Search(ctx, TypeSubscription, url.Values{
		"criteria": {criteria},
		"status":   {"active"},
		"type":     {"websocket"},
		"_summary": {"true"},
	})
	if err != nil {
		return "", err
	}
	for _, r := range b.Resources() {
		if r.Type == TypeSubscription && r.ID != "" {
			return r.ID, nil
		}
	}
	return "", perr.NotFoundf("fhir: no active websocket subscription for %q", criteria)
}
