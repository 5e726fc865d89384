// Package modkit holds what every module is built from: shared deps, options and the module contract
package modkit

import (
	"feasibility/internal/modkit/repokit"
	"feasibility/internal/platform/config"
	"feasibility/internal/platform/logger"
	"feasibility/internal/platform/store"

	"github.com/prometheus/client_golang/prometheus"
)

// Deps is what main hands every module
// PG and CH are nil when that result store is off; Metrics is nil in most tests
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	Metrics prometheus.Registerer
}
