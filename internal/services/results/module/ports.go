package module

import dom "feasibility/internal/services/results/domain"

// Ports holds the ports exposed by the results module
// History is nil when postgres is not configured
type Ports struct {
	Worker  dom.WorkerPort
	History dom.HistoryPort
}
