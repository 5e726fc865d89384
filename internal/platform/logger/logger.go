// Package logger owns the process zerolog logger and its request scoped children
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"feasibility/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

type Logger = zerolog.Logger

// Options configures the root logger
// Service and Component are stamped on every line when set
type Options struct {
	Level       string
	Format      string    // console or json
	Service     string
	Component   string
	Writer      io.Writer // stdout when nil
	WithCaller  bool
	SampleEvery int       // keep one line in N, off below 2
}

// FromEnv reads LOG_*
// config logs through this package, so the raw reader is used here
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(env.Get("LEVEL", "info")),
		Format:      strings.ToLower(env.Get("FORMAT", "console")),
		Service:     env.Get("SERVICE", "feasibility"),
		Component:   env.Get("COMPONENT", ""),
		WithCaller:  env.Bool("CALLER", false),
		SampleEvery: env.Int("SAMPLE_EVERY", 0),
	}
}

var (
	initOnce sync.Once
	root     atomic.Pointer[Logger]
)

// Init sets the root logger; calls after the first are ignored
func Init(opt Options) {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		root.Store(&l)
	})
}

// Get returns the root logger, built from FromEnv when Init was never called
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

func build(opt Options) Logger {
	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	fields := zerolog.New(out).Level(parseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		fields = fields.Str("go_version", bi.GoVersion)
	}
	for k, v := range map[string]string{"service": opt.Service, "component": opt.Component} {
		if v != "" {
			fields = fields.Str(k, v)
		}
	}
	if opt.WithCaller {
		fields = fields.Caller()
	}

	l := fields.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// parseLevel takes zerolog's level names plus "warning"; anything else is debug
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel || lvl == zerolog.Disabled {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey int

const (
	requestIDKey ctxKey = iota
	clientKey
)

// WithRequest stores the fields C adds to request loggers; empty values are skipped
func WithRequest(ctx context.Context, reqID, client string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, requestIDKey, reqID)
	}
	if client != "" {
		ctx = context.WithValue(ctx, clientKey, client)
	}
	return ctx
}

// C returns a child of the root logger carrying request_id and client from ctx
func C(ctx context.Context) *Logger { return For(Get(), ctx) }

// For is C over base instead of the root logger
func For(base *Logger, ctx context.Context) *Logger {
	b := base.With()
	if s, _ := ctx.Value(requestIDKey).(string); s != "" {
		b = b.Str("request_id", s)
	}
	if s, _ := ctx.Value(clientKey).(string); s != "" {
		b = b.Str("client", s)
	}
	l := b.Logger()
	return &l
}

// Named returns a root child tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
