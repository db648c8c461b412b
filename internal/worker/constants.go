package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// ============================================================================
// Log Messages - Sweep Worker
// ============================================================================

// Log messages for expiry sweep operations
const (
	LogMsgSweepStarting  = "Expiry sweep starting"
	LogMsgSweepFailed    = "Expiry sweep failed"
	LogMsgSweepCompleted = "Expiry sweep pass finished"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount           = 2
	TestQueueSize             = 10
	TestWorkerProcessWaitTime = 100 // milliseconds
)
