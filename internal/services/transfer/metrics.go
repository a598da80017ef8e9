package transfer

// MetricsCollector defines the interface for collecting transfer metrics
type MetricsCollector interface {
	RecordTransfer(amount float64)
	RecordRetry(operation string)
	RecordError(operation, errType string)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransfer(float64)     {}
func (n *NoopMetricsCollector) RecordRetry(string)         {}
func (n *NoopMetricsCollector) RecordError(string, string) {}
func (n *NoopMetricsCollector) RecordCacheHit(string)      {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)     {}
