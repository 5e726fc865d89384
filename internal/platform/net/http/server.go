package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"feasibility/internal/platform/config"
	"feasibility/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

const shutdownGrace = 10 * time.Second

// Server serves the API on API_PORT, default :4000
type Server struct {
	mux *chi.Mux
	srv *stdhttp.Server
}

// NewServer builds the server; opts see the mux before any route is added
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	mux := chi.NewRouter()
	for _, o := range opts {
		o(mux)
	}
	return &Server{
		mux: mux,
		srv: &stdhttp.Server{
			Addr:              cfg.MayString("API_PORT", ":4000"),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Router is where modules mount their routes
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Run serves until ctx is cancelled, then drains in-flight requests for up to shutdownGrace
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")

	stop := context.AfterFunc(ctx, func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
		defer cancel()
		if err := s.srv.Shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
	})
	defer stop()

	log.Info().Str("addr", s.srv.Addr).Msg("http listening")
	if err := s.srv.ListenAndServe(); !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}
