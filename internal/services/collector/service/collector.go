// Package service implements the result collector pipeline
package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"feasibility/internal/adapters/fhir"
	perr "feasibility/internal/platform/errors"
	"feasibility/internal/platform/logger"
	"feasibility/internal/services/collector/domain"
	"feasibility/internal/services/collector/resultstore"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Collector
type Option func(*Collector)

// WithRegisterer registers the collector metrics on reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Collector) { c.reg = reg }
}

// WithLogger overrides the component logger
func WithLogger(l logger.Logger) Option {
	return func(c *Collector) { c.log = l }
}

// Collector receives result tasks, resolves them and announces stored results
type Collector struct {
	store    *resultstore.Store
	sub      fhir.Subscription
	resolver *Resolver
	metrics  *Metrics
	reg      prometheus.Registerer
	log      logger.Logger
	now      func() time.Time

	mu        sync.RWMutex
	nextID    uint64
	listeners []listenerEntry
}

type listenerEntry struct {
	id uint64
	fn domain.ResultListener
}

var (
	_ domain.CollectorPort = (*Collector)(nil)
	_ domain.WorkerPort    = (*Collector)(nil)
)

// New provisions both FHIR clients and subscribes the collector's handler
// A provisioning failure is returned as an Unavailable error and no collector is built
func New(ctx context.Context, provider fhir.Provider, store *resultstore.Store, opts ...Option) (*Collector, error) {
	if provider == nil {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "collector: nil connection provider")
	}
	if store == nil {
		store = resultstore.New()
	}

	c := &Collector{
		store: store,
		log:   *logger.Named("collector"),
		now:   time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.metrics = NewMetrics(c.reg, c.store)

	reader, err := provider.WebserviceClient(ctx)
	if err != nil {
		return nil, provisioning(err, "webservice client")
	}
	sub, err := provider.WebsocketClient(ctx)
	if err != nil {
		return nil, provisioning(err, "websocket client")
	}
	if err := sub.Subscribe(c.Handle); err != nil {
		return nil, provisioning(err, "subscription handler")
	}

	c.resolver = NewResolver(reader)
	c.sub = sub
	return c, nil
}

func provisioning(err error, what string) error {
	return perr.Wrapf(err, perr.ErrorCodeUnavailable, "collector: provision %s", what)
}

// Run drives the subscription until ctx is done
func (c *Collector) Run(ctx context.Context) error {
	c.log.Info().Msg("collector listening for result tasks")
	err := c.sub.Listen(ctx)
	c.log.Info().Err(err).Msg("collector stopped")
	return err
}

// Handle processes one inbound document
// received, classified, resolved, stored, then listeners notified
func (c *Collector) Handle(ctx context.Context, res fhir.Resource) {
	c.metrics.Received.Inc()

	ev, err := Classify(res)
	if err != nil {
		reason := "unknown"
		if se, ok := IsSkip(err); ok {
			reason = se.Reason
		}
		c.metrics.Skipped.WithLabelValues(reason).Inc()
		c.log.Debug().Str("resource_type", res.Type).Str("resource_id", res.ID).Str("reason", reason).Msg("document skipped")
		return
	}

	log := c.log.With().
		Str("query_id", ev.QueryID).
		Str("site_id", ev.SiteID).
		Str("task_id", ev.TaskID).
		Str("measure_report", ev.MeasureReportRef).
		Logger()

	start := c.now()
	n, err := c.resolver.Resolve(ctx, ev.MeasureReportRef)
	c.metrics.ResolveSeconds.Observe(c.now().Sub(start).Seconds())
	if err != nil {
		c.metrics.ResolutionFailures.Inc()
		log.Warn().Err(err).Msg("result could not be resolved")
		return
	}

	if !c.store.Put(ev.QueryID, ev.SiteID, n) {
		c.metrics.Duplicates.Inc()
		log.Debug().Int("result", n).Msg("duplicate result ignored")
		return
	}
	c.metrics.Stored.Inc()
	log.Info().Int("result", n).Msg("site result stored")

	c.notify(ev.QueryID, ev.SiteID, domain.StatusCompleted)
}

// AddResultListener registers l until the returned func is called
func (c *Collector) AddResultListener(l domain.ResultListener) (remove func()) {
	if l == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	next := make([]listenerEntry, len(c.listeners), len(c.listeners)+1)
	copy(next, c.listeners)
	c.listeners = append(next, listenerEntry{id: id, fn: l})
	c.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { c.removeListener(id) }) }
}

func (c *Collector) removeListener(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]listenerEntry, 0, len(c.listeners))
	for _, e := range c.listeners {
		if e.id != id {
			next = append(next, e)
		}
	}
	c.listeners = next
}

// notify calls every listener registered at this point, in registration order
func (c *Collector) notify(queryID, siteID string, status domain.QueryStatus) {
	c.mu.RLock()
	snapshot := c.listeners
	c.mu.RUnlock()

	for _, e := range snapshot {
		c.call(e, queryID, siteID, status)
	}
}

func (c *Collector) call(e listenerEntry, queryID, siteID string, status domain.QueryStatus) {
	defer func() {
		if rec := recover(); rec != nil {
			c.log.Error().
				Str("panic", fmt.Sprint(rec)).
				Uint64("listener", e.id).
				Str("query_id", queryID).
				Str("site_id", siteID).
				Bytes("stack", debug.Stack()).
				Msg("result listener panicked")
		}
	}()
	e.fn(queryID, siteID, status)
}

// GetResultFeasibility returns the stored result or a NotFound error
func (c *Collector) GetResultFeasibility(queryID, siteID string) (int, error) {
	n, ok := c.store.Get(queryID, siteID)
	if !ok {
		return 0, perr.NotFoundf("no result for query %q from site %q", queryID, siteID)
	}
	return n, nil
}

// GetResultSiteIDs lists the sites that answered queryID
func (c *Collector) GetResultSiteIDs(queryID string) []string {
	return c.store.SiteIDs(queryID)
}

// Queries lists every query with at least one stored result
func (c *Collector) Queries() []string { return c.store.Queries() }

// Ping reports whether the subscription is live when the subscription can tell
func (c *Collector) Ping(ctx context.Context) error {
	if p, ok := c.sub.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
