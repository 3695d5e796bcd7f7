package ds

import (
	art "github.com/plar/go-adaptive-radix-tree"
)

type AdaptiveRadixTree struct {
	tree art.Tree
}

func NewART() *AdaptiveRadixTree {
	return &AdaptiveRadixTree{
		tree: art.New(),
	}
}

func (t *AdaptiveRadixTree) Put(key []byte, value interface{}) (oldVal interface{}, updated bool) {
	return t.tree.Insert(key, value)
}

func (t *AdaptiveRadixTree) Size() int {
	return t.tree.Size()
}

// Walk visits every leaf in byte-wise key order until fn returns false.
func (t *AdaptiveRadixTree) Walk(fn func(key []byte, value interface{}) bool) {
	t.tree.ForEach(func(node art.Node) bool {
		return fn(node.Key(), node.Value())
	}, art.TraverseLeaf)
}
