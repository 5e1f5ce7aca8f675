package ingester

import "time"

const (
	defaultWorkerCount   = 8
	defaultReorgMaxDepth = 100

	resyncActiveBatchLimit uint64 = 200
	resyncIdleBatchLimit   uint64 = 5000
	tipActivityWindow             = 2 * time.Minute

	outputFlushSize     = 10_000
	outputFlushInterval = 1 * time.Second
	outputFlushRPS      = 50

	caughtUpSleepDuration  = 5 * time.Second
	errorSleepDuration     = 5 * time.Second
	postBatchSleepDuration = 5 * time.Second
	idleSleepDuration      = 1 * time.Minute
)
