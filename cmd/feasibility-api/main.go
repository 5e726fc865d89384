// @title         Feasibility API
// @version       1.0
// @description   Collects feasibility results from DSF sites and serves them

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"feasibility/internal/modkit"
	"feasibility/internal/modkit/module"
	"feasibility/internal/modkit/repokit"
	"feasibility/internal/platform/config"
	"feasibility/internal/platform/logger"
	"feasibility/internal/platform/metrics"
	phttp "feasibility/internal/platform/net/http"
	"feasibility/internal/platform/store"

	"feasibility/internal/services/api"
	metamod "feasibility/internal/services/api/meta/module"
	collectormod "feasibility/internal/services/collector/module"
	resultsmod "feasibility/internal/services/results/module"

	"golang.org/x/sync/errgroup"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, storeConfig(pgCfg, chCfg), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	repokit.MustGuard(ctx, st)
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	reg := metrics.Registry()
	deps := modkit.Deps{
		Log:     *l,
		Cfg:     root,
		PG:      st.PG,
		CH:      st.CH,
		Metrics: reg,
	}

	collector, err := collectormod.New(ctx, deps, collectormod.Options{})
	if err != nil {
		l.Panic().Err(err).Msg("collector provisioning failed")
	}
	cports := module.MustPortsOf[collectormod.Ports](collector)

	results, err := resultsmod.New(ctx, deps, cports.Collector, resultsmod.Options{})
	if err != nil {
		l.Panic().Err(err).Msg("results module failed")
	}
	defer results.Close()
	if len(results.Sinks()) == 0 {
		l.Warn().Msg("no result store enabled; results are kept in memory only")
	}
	rports := module.MustPortsOf[resultsmod.Ports](results)

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		APIToken:       apiCfg.MayString("TOKEN", ""),
		Collector:      cports.Collector,
		History:        rports.History,
		Readiness:      metamod.Ports{FHIR: cports.Worker},
		Gatherer:       reg,
	})

	if err := runPipeline(ctx, srv, cports.Worker, rports.Worker); err != nil {
		l.Error().Err(err).Msg("feasibility-api stopped with error")
		return
	}
	l.Info().Msg("feasibility-api stopped")
}

// storeConfig reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_*
// Both stores are off unless ENABLED; the collector keeps results in memory regardless
func storeConfig(pgCfg, chCfg config.Conf) store.Config {
	cfg := store.Config{AppName: "feasibility"}
	if pgCfg.MayBool("ENABLED", false) {
		cfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		}
	}
	if chCfg.MayBool("ENABLED", false) {
		cfg.CH = store.CHConfig{Enabled: true, URL: chCfg.MustString("DBURL"), ClientName: "feasibility", ClientTag: "api"}
	}
	return cfg
}

type runner interface {
	Run(ctx context.Context) error
}

// runPipeline runs the server and collector until ctx is done
// The results worker outlives the collector so late notifications are still flushed
func runPipeline(ctx context.Context, srv, collector, results runner) error {
	g, gctx := errgroup.WithContext(ctx)
	rctx, stopResults := context.WithCancel(context.WithoutCancel(gctx))
	defer stopResults()

	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		defer stopResults()
		return collector.Run(gctx)
	})
	g.Go(func() error { return results.Run(rctx) })
	return g.Wait()
}
