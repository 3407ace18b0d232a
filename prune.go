package main

const nanosPerMilli = 1_000_000

func millisToNanos(millis int) int64 {
	return int64(millis) * nanosPerMilli
}

func nanosToMillis(nanos int64) float64 {
	return float64(nanos) / nanosPerMilli
}

// pruneDocument returns a copy of doc without the operations that took
// millisThreshold or less. A node survives only if its time is strictly
// greater than the threshold. Containers left empty are dropped, and so is
// any shard left with nothing but its id. doc itself is not modified.
func pruneDocument(doc *profileDocument, millisThreshold int) *profileDocument {
	nanosThreshold := millisToNanos(millisThreshold)
	out := &profileDocument{
		took:        doc.took,
		shardsTotal: doc.shardsTotal,
		hitsTotal:   doc.hitsTotal,
		hasProfile:  doc.hasProfile,
	}

	for _, shard := range doc.shards {
		ps := &shardProfile{
			id:         shard.id,
			otherAttrs: shard.otherAttrs,
		}
		for _, search := range shard.searches {
			if s := pruneSearch(search, nanosThreshold); !s.empty() {
				ps.searches = append(ps.searches, s)
			}
		}
		ps.aggregations = pruneForest(shard.aggregations, nanosThreshold)
		if ps.attrCount() > 1 {
			out.shards = append(out.shards, ps)
		}
	}
	return out
}

func pruneSearch(search *searchProfile, nanosThreshold int64) *searchProfile {
	ps := &searchProfile{
		query:      pruneForest(search.query, nanosThreshold),
		collector:  pruneForest(search.collector, nanosThreshold),
		otherAttrs: search.otherAttrs,
	}
	// rewrite_time is compared, never descended into.
	if search.hasRewrite && search.rewriteNanos > nanosThreshold {
		ps.rewriteNanos = search.rewriteNanos
		ps.hasRewrite = true
	}
	return ps
}

// pruneForest keeps the roots above the threshold and prunes their
// descendants by the same rule. Sibling order is preserved.
func pruneForest(forest []*timingNode, nanosThreshold int64) []*timingNode {
	var out []*timingNode
	for _, root := range forest {
		if root == nil || root.elapsedNanos <= nanosThreshold {
			continue
		}
		out = append(out, pruneTree(root, nanosThreshold))
	}
	return out
}

func pruneTree(root *timingNode, nanosThreshold int64) *timingNode {
	type pair struct {
		src, dst *timingNode
	}
	top := copyFields(root)
	stack := []pair{{root, top}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range cur.src.children {
			if c == nil || c.elapsedNanos <= nanosThreshold {
				continue
			}
			cc := copyFields(c)
			cur.dst.children = append(cur.dst.children, cc)
			stack = append(stack, pair{c, cc})
		}
	}
	return top
}

// copyFields copies a node without its children. The breakdown map is
// shared; nothing downstream writes to it.
func copyFields(n *timingNode) *timingNode {
	return &timingNode{
		name:         n.name,
		elapsedNanos: n.elapsedNanos,
		description:  n.description,
		breakdown:    n.breakdown,
	}
}
