package main

import (
	"fmt"
	"io"
	"sort"
)

type hotEntry struct {
	name       string
	shard      string
	selfNanos  int64
	totalNanos int64
}

// selfNanos is the time a node spent outside its children.
func selfNanos(n *timingNode) int64 {
	self := n.elapsedNanos
	for _, c := range n.children {
		if c != nil {
			self -= c.elapsedNanos
		}
	}
	if self < 0 {
		return 0
	}
	return self
}

// computeHot collects every profiled node of every shard, ranked by self
// time. Ties keep document order.
func computeHot(doc *profileDocument) []hotEntry {
	var ranked []hotEntry
	collect := func(shard string, forest []*timingNode) {
		for _, root := range forest {
			for _, fn := range flattenTree(root) {
				ranked = append(ranked, hotEntry{
					name:       nodeLabel(fn.node),
					shard:      shard,
					selfNanos:  selfNanos(fn.node),
					totalNanos: fn.node.elapsedNanos,
				})
			}
		}
	}

	for _, shard := range doc.shards {
		for _, search := range shard.searches {
			collect(shard.id, search.query)
			collect(shard.id, search.collector)
		}
		collect(shard.id, shard.aggregations)
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].selfNanos > ranked[j].selfNanos })
	return ranked
}

func printHotTable(w io.Writer, title string, entries []hotEntry) {
	fmt.Fprintf(w, "=== %s ===\n", title)
	fmt.Fprintf(w, "%-50s %12s %12s  %s\n", "NODE", "SELF ms", "TOTAL ms", "SHARD")
	for _, e := range entries {
		fmt.Fprintf(w, "%-50s %12.3f %12.3f  %s\n", e.name, nanosToMillis(e.selfNanos), nanosToMillis(e.totalNanos), e.shard)
	}
}

func cmdHot(w io.Writer, doc *profileDocument, top int, assertBelow float64) error {
	if !doc.hasProfile {
		return errMissingProfileData
	}
	ranked := computeHot(doc)
	if len(ranked) == 0 {
		fmt.Fprintln(w, "no profiled operations")
		return nil
	}

	printHotTable(w, "RANK BY SELF TIME", ranked[:truncate(len(ranked), top)])

	totalRanked := make([]hotEntry, len(ranked))
	copy(totalRanked, ranked)
	sort.SliceStable(totalRanked, func(i, j int) bool { return totalRanked[i].totalNanos > totalRanked[j].totalNanos })

	fmt.Fprintln(w)
	printHotTable(w, "RANK BY TOTAL TIME", totalRanked[:truncate(len(totalRanked), top)])

	// assert-below gates on the most expensive operation overall
	if assertBelow > 0 {
		worst := totalRanked[0]
		if ms := nanosToMillis(worst.totalNanos); ms >= assertBelow {
			return fmt.Errorf("ASSERT FAILED: %s took %s ms >= threshold %g ms", worst.name, formatMillis(worst.totalNanos), assertBelow)
		}
	}
	return nil
}
