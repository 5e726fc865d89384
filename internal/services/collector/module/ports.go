package module

import dom "feasibility/internal/services/collector/domain"

// Ports holds the ports exposed by the collector module
type Ports struct {
	Collector dom.CollectorPort
	Worker    dom.WorkerPort
}
