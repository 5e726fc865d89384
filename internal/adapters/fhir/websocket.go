package fhir

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	perr "feasibility/internal/platform/errors"
	"feasibility/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultWorkers       = 8
	defaultReconnectBase = 500 * time.Millisecond
	defaultReconnectMax  = 30 * time.Second
	defaultBindTimeout   = 10 * time.Second
)

// ErrHandlerInstalled is returned by Subscribe when a handler is already in place
var ErrHandlerInstalled = perr.Conflictf("fhir: subscription handler already installed")

// WebsocketOptions configures a Websocket subscription
type WebsocketOptions struct {
	URL            string
	SubscriptionID string
	BearerToken    string

	// Workers bounds the number of documents handled concurrently
	// With every worker busy the read loop waits for a free slot, so a stuck
	// handler stalls delivery for at most the REST timeout times its retries
	Workers int

	// ReadLimit caps a single frame; a larger one ends the session
	ReadLimit int64

	ReconnectBase time.Duration
	ReconnectMax  time.Duration
	BindTimeout   time.Duration

	Dialer *websocket.Dialer
}

// Websocket is a DSF websocket subscription
// It binds to one Subscription and fans documents out to a bounded worker pool
type Websocket struct {
	opts   WebsocketOptions
	dialer *websocket.Dialer
	log    logger.Logger
	sleep  func(context.Context, time.Duration) error

	mu      sync.Mutex
	handler Handler
	bound   atomic.Bool
}

var _ Subscription = (*Websocket)(nil)

// NewWebsocket validates o and creates an unconnected Websocket
func NewWebsocket(o WebsocketOptions) (*Websocket, error) {
	if strings.TrimSpace(o.URL) == "" {
		return nil, perr.InvalidArgf("fhir: websocket url is required")
	}
	if !strings.HasPrefix(o.URL, "ws://") && !strings.HasPrefix(o.URL, "wss://") {
		return nil, perr.InvalidArgf("fhir: websocket url %q must use ws or wss", o.URL)
	}
	if strings.TrimSpace(o.SubscriptionID) == "" {
		return nil, perr.InvalidArgf("fhir: subscription id is required")
	}
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.ReconnectBase <= 0 {
		o.ReconnectBase = defaultReconnectBase
	}
	if o.ReconnectMax <= 0 {
		o.ReconnectMax = defaultReconnectMax
	}
	if o.BindTimeout <= 0 {
		o.BindTimeout = defaultBindTimeout
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = maxBodyBytes
	}
	d := o.Dialer
	if d == nil {
		d = websocket.DefaultDialer
	}
	return &Websocket{
		opts:   o,
		dialer: d,
		log:    logger.Named("fhir-ws").With().Str("subscription_id", o.SubscriptionID).Logger(),
		sleep:  sleepCtx,
	}, nil
}

// Subscribe installs the single document handler
func (w *Websocket) Subscribe(h Handler) error {
	if h == nil {
		return perr.InvalidArgf("fhir: nil subscription handler")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.handler != nil {
		return ErrHandlerInstalled
	}
	w.handler = h
	return nil
}

func (w *Websocket) currentHandler() Handler {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handler
}

// Listen connects, binds and dispatches documents until ctx is done
// Connection failures are retried with capped exponential backoff
func (w *Websocket) Listen(ctx context.Context) error {
	h := w.currentHandler()
	if h == nil {
		return perr.Newf(perr.ErrorCodeInvalidArgument, "fhir: listen without a subscription handler")
	}

	sem := make(chan struct{}, w.opts.Workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	b := newBackoff(w.opts.ReconnectBase, w.opts.ReconnectMax)
	failures := 0
	for {
		if ctx.Err() != nil {
			return nil
		}
		bound, err := w.session(ctx, h, sem, &wg)
		if ctx.Err() != nil {
			return nil
		}
		if bound {
			failures = 0
			b.Reset()
		}
		back := b.NextBackOff()
		w.log.Warn().Err(err).Dur("retry_in", back).Int("failures", failures).Msg("fhir websocket disconnected")
		failures++
		if err := w.sleep(ctx, back); err != nil {
			return nil
		}
	}
}

// Ping reports Unavailable while no connection is bound
func (w *Websocket) Ping(_ context.Context) error {
	if !w.bound.Load() {
		return perr.Unavailablef("fhir websocket not bound")
	}
	return nil
}

// session runs one connection; bound reports whether the bind handshake succeeded
func (w *Websocket) session(ctx context.Context, h Handler, sem chan struct{}, wg *sync.WaitGroup) (bound bool, err error) {
	header := http.Header{}
	if w.opts.BearerToken != "" {
		header.Set("Authorization", "Bearer "+w.opts.BearerToken)
	}

	conn, resp, err := w.dialer.DialContext(ctx, w.opts.URL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "fhir websocket dial %s", w.opts.URL)
	}
	conn.SetReadLimit(w.opts.ReadLimit)
	connID := uuid.NewString()
	log := w.log.With().Str("conn_id", connID).Logger()

	// unblock reads when ctx ends
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	if err := w.bind(conn); err != nil {
		return false, err
	}
	w.bound.Store(true)
	defer w.bound.Store(false)
	log.Info().Msg("fhir websocket bound")

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return true, perr.Wrap(err, perr.ErrorCodeUnavailable, "fhir websocket read")
		}
		text := strings.TrimSpace(string(msg))
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "ping ") {
			log.Trace().Msg("fhir websocket ping")
			continue
		}
		res, err := Parse(msg)
		if err != nil {
			log.Warn().Err(err).Int("bytes", len(msg)).Msg("fhir websocket undecodable message")
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return true, ctx.Err()
		}
		wg.Add(1)
		go func(res Resource) {
			defer wg.Done()
			defer func() { <-sem }()
			w.dispatch(ctx, h, res)
		}(res)
	}
}

// bind sends the bind command and waits for the bound acknowledgement
func (w *Websocket) bind(conn *websocket.Conn) error {
	id := w.opts.SubscriptionID
	_ = conn.SetWriteDeadline(time.Now().Add(w.opts.BindTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, []byte("bind "+id)); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "fhir websocket bind write")
	}
	_ = conn.SetWriteDeadline(time.Time{})

	_ = conn.SetReadDeadline(time.Now().Add(w.opts.BindTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "fhir websocket bind read")
	}
	_ = conn.SetReadDeadline(time.Time{})

	if got := strings.TrimSpace(string(msg)); got != "bound "+id {
		return perr.Newf(perr.ErrorCodeUnavailable, "fhir websocket bind rejected: %q", truncate(got, 128))
	}
	return nil
}

func (w *Websocket) dispatch(ctx context.Context, h Handler, res Resource) {
	defer func() {
		if rec := recover(); rec != nil {
			w.log.Error().
				Str("panic", fmt.Sprint(rec)).
				Str("resource_type", res.Type).
				Str("resource_id", res.ID).
				Bytes("stack", debug.Stack()).
				Msg("fhir subscription handler panicked")
		}
	}()
	h(ctx, res)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
