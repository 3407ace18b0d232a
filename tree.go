package main

// flatNode is a timing node annotated with its distance from the tree root.
type flatNode struct {
	node  *timingNode
	depth int
}

// flattenTree turns a timing tree into a printable pre-order list.
// It walks with an explicit stack, so arbitrarily deep trees are fine.
// Children are pushed in reverse so siblings come out left-to-right,
// e.g. A{B, C{D}} flattens to A, B, C, D.
func flattenTree(root *timingNode) []flatNode {
	if root == nil {
		return nil
	}
	stack := []flatNode{{root, 0}}
	var nodes []flatNode

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes = append(nodes, cur)

		children := cur.node.children
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] == nil {
				continue
			}
			stack = append(stack, flatNode{children[i], cur.depth + 1})
		}
	}
	return nodes
}
