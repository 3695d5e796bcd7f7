package stripedb

import (
	"fmt"
	"time"

	"stripedb/ds"
)

const (
	defaultMutationInterval time.Duration = 10 * time.Millisecond
	defaultNodeID           int64         = 1
)

type Config struct {
	ShardCount        int           // Number of independently lockable shards, default 10.
	QueueCapacity     int           // Buffer of the mutation queue, default ShardCount.
	BroadcastCapacity int           // Per-subscriber buffer of published pools, default ShardCount.
	MutationInterval  time.Duration // Pause between two mutation passes.
	NodeID            int64         // Snowflake node used for pool generation IDs, 0..1023.

	// Verbose enables per-pass and per-publication logs.
	Verbose bool
}

func DefaultConfig() Config {
	return Config{
		ShardCount:        ds.DefaultShardCount,
		QueueCapacity:     ds.DefaultShardCount,
		BroadcastCapacity: ds.DefaultShardCount,
		MutationInterval:  defaultMutationInterval,
		NodeID:            defaultNodeID,
	}
}

// validate fills zero capacities from ShardCount and rejects negative values.
func (c *Config) validate() error {
	if c.ShardCount < 1 {
		return fmt.Errorf("%w: shard count %d", ErrInvalidConfig, c.ShardCount)
	}
	if c.QueueCapacity < 0 || c.BroadcastCapacity < 0 || c.MutationInterval < 0 {
		return fmt.Errorf("%w: negative capacity or interval", ErrInvalidConfig)
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = c.ShardCount
	}
	if c.BroadcastCapacity == 0 {
		c.BroadcastCapacity = c.ShardCount
	}
	return nil
}
