// Package service persists collected results through a bounded queue
package service

import (
	"context"
	"time"

	perr "feasibility/internal/platform/errors"
	"feasibility/internal/platform/logger"
	"feasibility/internal/platform/metrics"
	cdom "feasibility/internal/services/collector/domain"
	"feasibility/internal/services/results/domain"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const subsystem = "results"

// Config controls queueing and batching
type Config struct {
	QueueSize  int
	Workers    int
	BatchSize  int
	FlushEvery time.Duration

	// DrainTimeout bounds the final flush after ctx is done
	DrainTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = 1024
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 64
	}
	if c.FlushEvery <= 0 {
		c.FlushEvery = 500 * time.Millisecond
	}
	if c.DrainTimeout <= 0 {
		c.DrainTimeout = 5 * time.Second
	}
	return c
}

// Service listens for stored results and writes them to every sink
type Service struct {
	reader cdom.ResultReader
	sinks  []domain.Sink
	cfg    Config
	queue  chan domain.Result
	log    logger.Logger
	now    func() time.Time

	enqueued prometheus.Counter
	dropped  prometheus.Counter
	written  *prometheus.CounterVec
	failed   *prometheus.CounterVec
	depth    prometheus.Gauge
}

var _ domain.WorkerPort = (*Service)(nil)

// New builds the service; reader is used to read back the value a listener call announces
func New(reader cdom.ResultReader, sinks []domain.Sink, cfg Config, reg prometheus.Registerer) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		reader: reader,
		sinks:  sinks,
		cfg:    cfg,
		queue:  make(chan domain.Result, cfg.QueueSize),
		log:    *logger.Named("results"),
		now:    time.Now,

		enqueued: metrics.MustRegisterCounter(reg, subsystem, "enqueued_total", "Results queued for persistence."),
		dropped:  metrics.MustRegisterCounter(reg, subsystem, "dropped_total", "Results dropped because the queue was full."),
		written:  metrics.MustRegisterCounterVec(reg, subsystem, "written_total", "Results written per sink.", "sink"),
		failed:   metrics.MustRegisterCounterVec(reg, subsystem, "write_failures_total", "Failed batch writes per sink.", "sink"),
		depth:    metrics.MustRegisterGauge(reg, subsystem, "queue_depth", "Results waiting in the queue."),
	}
}

// OnResult is a collector listener; it never blocks
// Without sinks nothing would drain the queue, so results are ignored
func (s *Service) OnResult(queryID, siteID string, status cdom.QueryStatus) {
	if len(s.sinks) == 0 {
		return
	}
	if status != cdom.StatusCompleted {
		s.log.Debug().Str("query_id", queryID).Str("site_id", siteID).Stringer("status", status).Msg("status not persisted")
		return
	}
	n, err := s.reader.GetResultFeasibility(queryID, siteID)
	if err != nil {
		s.log.Warn().Err(err).Str("query_id", queryID).Str("site_id", siteID).Msg("announced result not readable")
		return
	}

	r := domain.Result{
		QueryID:    queryID,
		SiteID:     siteID,
		ResultType: domain.ResultTypeSuccess,
		Result:     n,
		ReceivedAt: s.now().UTC(),
	}
	select {
	case s.queue <- r:
		s.enqueued.Inc()
		s.depth.Set(float64(len(s.queue)))
	default:
		s.dropped.Inc()
		s.log.Warn().Str("query_id", queryID).Str("site_id", siteID).Int("queue_size", s.cfg.QueueSize).Msg("result queue full, dropping")
	}
}

// Run starts the workers and returns once ctx is done and the queue is flushed
func (s *Service) Run(ctx context.Context) error {
	if len(s.sinks) == 0 {
		s.log.Info().Msg("no result sinks configured, persistence disabled")
		<-ctx.Done()
		return nil
	}

	names := make([]string, 0, len(s.sinks))
	for _, k := range s.sinks {
		names = append(names, k.Name())
	}
	s.log.Info().Strs("sinks", names).Int("workers", s.cfg.Workers).Msg("result persistence started")

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < s.cfg.Workers; i++ {
		g.Go(func() error {
			s.worker(gctx)
			return nil
		})
	}
	err := g.Wait()
	s.drain()
	return err
}

func (s *Service) worker(ctx context.Context) {
	batch := make([]domain.Result, 0, s.cfg.BatchSize)
	t := time.NewTicker(s.cfg.FlushEvery)
	defer t.Stop()

	flush := func(fctx context.Context) {
		if len(batch) == 0 {
			return
		}
		s.write(fctx, batch)
		batch = batch[:0]
		s.depth.Set(float64(len(s.queue)))
	}

	for {
		select {
		case <-ctx.Done():
			dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.DrainTimeout)
			flush(dctx)
			cancel()
			return
		case r := <-s.queue:
			batch = append(batch, r)
			if len(batch) >= s.cfg.BatchSize {
				flush(ctx)
			}
		case <-t.C:
			flush(ctx)
		}
	}
}

// drain writes whatever is still queued after the workers stopped
func (s *Service) drain() {
	var rest []domain.Result
loop:
	for {
		select {
		case r := <-s.queue:
			rest = append(rest, r)
		default:
			break loop
		}
	}
	if len(rest) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DrainTimeout)
	defer cancel()
	s.write(ctx, rest)
	s.depth.Set(0)
}

func (s *Service) write(ctx context.Context, rs []domain.Result) {
	for _, k := range s.sinks {
		err := k.Write(ctx, rs)
		if err != nil && perr.Retryable(err) {
			s.log.Warn().Err(err).Str("sink", k.Name()).Msg("result batch write retried")
			err = k.Write(ctx, rs)
		}
		if err != nil {
			s.failed.WithLabelValues(k.Name()).Inc()
			s.log.Error().Err(err).Str("sink", k.Name()).Int("results", len(rs)).Msg("result batch write failed")
			continue
		}
		s.written.WithLabelValues(k.Name()).Add(float64(len(rs)))
	}
}

// EnsureSchema asks every sink that can to create its tables
func (s *Service) EnsureSchema(ctx context.Context) error {
	for _, k := range s.sinks {
		if e, ok := k.(domain.SchemaEnsurer); ok {
			if err := e.EnsureSchema(ctx); err != nil {
				return perr.Wrapf(err, perr.ErrorCodeDB, "results: ensure %s schema", k.Name())
			}
		}
	}
	return nil
}
