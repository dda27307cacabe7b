package instrumentation

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with unbounded values.

// BucketEventCount reduces an event count to a fixed set of range labels.
// Raw counts are unbounded; the buckets keep the label space small while
// still distinguishing empty, small, and large refreshes.
//
// Example:
//
//	BucketEventCount(0)    // "0"
//	BucketEventCount(7)    // "1-10"
//	BucketEventCount(42)   // "11-50"
//	BucketEventCount(120)  // "50+"
func BucketEventCount(count int) string {
	switch {
	case count <= 0:
		return "0"
	case count <= 10:
		return "1-10"
	case count <= 50:
		return "11-50"
	default:
		return "50+"
	}
}

// BucketWindowDays reduces a look-behind/look-ahead day count to a range
// label. Window sizes come from user configuration and are unbounded.
func BucketWindowDays(days int) string {
	switch {
	case days <= 0:
		return "0"
	case days <= 7:
		return "1-7"
	case days <= 31:
		return "8-31"
	default:
		return "31+"
	}
}

// Common operation types for calendar acquisition metrics.
// Status and Result constants are defined in config.go.
const (
	OperationProbe     = "probe"
	OperationAcquire   = "acquire"
	OperationStatus    = "status"
	OperationConfigure = "configure"
)
