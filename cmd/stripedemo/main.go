package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"stripedb"
)

func main() {
	cfg := stripedb.DefaultConfig()
	flag.IntVarP(&cfg.ShardCount, "shards", "s", cfg.ShardCount, "number of shards")
	flag.IntVarP(&cfg.QueueCapacity, "queue", "q", cfg.QueueCapacity, "mutation queue capacity")
	flag.IntVar(&cfg.BroadcastCapacity, "broadcast", cfg.BroadcastCapacity, "per-subscriber broadcast buffer")
	flag.DurationVarP(&cfg.MutationInterval, "interval", "i", cfg.MutationInterval, "pause between mutation passes")
	flag.Int64Var(&cfg.NodeID, "node", cfg.NodeID, "snowflake node ID for pool generations")
	flag.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every pass and publication")
	duration := flag.DurationP("duration", "d", 2*time.Second, "how long to run before printing the snapshot")
	dump := flag.Bool("dump", false, "print the entries of the largest shard")
	flag.Parse()

	db, err := stripedb.Open(cfg)
	if err != nil {
		log.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := db.Start(ctx); err != nil {
		log.Fatalf("start: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case <-time.After(*duration):
	case <-db.Done():
		log.Printf("workers exited early: %v", db.Err())
	}

	snap := db.Snapshot()
	if err := db.Close(); err != nil {
		log.Printf("close: %v", err)
	}

	fmt.Printf("pool %v (parent %v), baseline %d\n", snap.PoolID, snap.Parent, snap.Baseline)
	fmt.Printf("entries %d across %d shards, %d distinct contents\n", snap.Total(), len(snap.Shards), snap.Divergent())
	for _, st := range snap.Ranked() {
		fmt.Printf("  shard %2d: %5d entries  fingerprint %016x\n", st.Index, st.Len, st.Fingerprint)
	}
	if *dump && len(snap.Shards) > 0 {
		largest := snap.Ranked()[0].Index
		for _, e := range snap.Entries(largest) {
			fmt.Printf("  %11d = %s\n", e.Key, e.Value)
		}
	}
}
