package ds

import (
	"github.com/bwmarrin/snowflake"
)

// IDGenerator hands out snowflake IDs for pool generations. A nil generator
// yields zero IDs.
type IDGenerator struct {
	node *snowflake.Node
}

func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &IDGenerator{node: node}, nil
}

func (g *IDGenerator) Next() snowflake.ID {
	if g == nil {
		return 0
	}
	return g.node.Generate()
}
