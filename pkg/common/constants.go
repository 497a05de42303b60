package common

const (
	// RedisKeyPipelineLock guards the daily pipeline so only one run is
	// active at a time, across replicas.
	RedisKeyPipelineLock = "stock-movers:pipeline:lock"

	TriggerSourceScheduled = "scheduled"
	TriggerSourceManual    = "manual"
)
