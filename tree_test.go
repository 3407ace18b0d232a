package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(name string, nanos int64, children ...*timingNode) *timingNode {
	return &timingNode{name: name, elapsedNanos: nanos, children: children}
}

func flatNames(nodes []flatNode) []string {
	names := make([]string, len(nodes))
	for i, fn := range nodes {
		names[i] = fn.node.name
	}
	return names
}

func TestFlattenTreeOrder(t *testing.T) {
	root := node("A", 4, node("B", 1), node("C", 2, node("D", 1)))

	nodes := flattenTree(root)

	assert.Equal(t, []string{"A", "B", "C", "D"}, flatNames(nodes))
	depths := make([]int, len(nodes))
	for i, fn := range nodes {
		depths[i] = fn.depth
	}
	assert.Equal(t, []int{0, 1, 1, 2}, depths)
}

func TestFlattenTreeSiblingsLeftToRight(t *testing.T) {
	root := node("root", 0,
		node("a", 0, node("a1", 0), node("a2", 0)),
		node("b", 0),
		node("c", 0, node("c1", 0)),
	)

	assert.Equal(t,
		[]string{"root", "a", "a1", "a2", "b", "c", "c1"},
		flatNames(flattenTree(root)))
}

func TestFlattenTreeDepthIsAncestorCount(t *testing.T) {
	root := node("r", 0,
		node("x", 0, node("y", 0, node("z", 0))),
		node("p", 0, node("q", 0)),
	)
	parent := map[*timingNode]*timingNode{}
	for _, fn := range flattenTree(root) {
		for _, c := range fn.node.children {
			parent[c] = fn.node
		}
	}

	for _, fn := range flattenTree(root) {
		ancestors := 0
		for p := parent[fn.node]; p != nil; p = parent[p] {
			ancestors++
		}
		assert.Equal(t, ancestors, fn.depth, "depth of %s", fn.node.name)
	}
}

func TestFlattenTreeDeepChain(t *testing.T) {
	const depth = 100000
	root := node("n", 1)
	cur := root
	for i := 1; i < depth; i++ {
		child := node("n", 1)
		cur.children = []*timingNode{child}
		cur = child
	}

	nodes := flattenTree(root)

	require.Len(t, nodes, depth)
	assert.Equal(t, depth-1, nodes[len(nodes)-1].depth)
}

func TestFlattenTreeNil(t *testing.T) {
	assert.Empty(t, flattenTree(nil))
}
