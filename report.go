package main

import (
	"fmt"
	"io"
)

// assembleReport builds the full report: summary line, then every shard's
// query, rewrite, collector and aggregation trees in document order.
// Without profile data only the summary line is returned, together with
// errMissingProfileData.
func assembleReport(doc *profileDocument, opts renderOptions, st reportStyle) ([]string, error) {
	lines := []string{
		fmt.Sprintf("Took %sms to query %s shards for %s hits", doc.took, doc.shardsTotal, doc.hitsTotal),
	}
	if !doc.hasProfile {
		return lines, errMissingProfileData
	}

	lines = append(lines, fmt.Sprintf("Profile data for %d shards shown", len(doc.shards)), "")

	renderForest := func(forest []*timingNode) {
		for _, root := range forest {
			lines = append(lines, renderNodes(flattenTree(root), opts, st)...)
		}
	}

	for _, shard := range doc.shards {
		lines = append(lines, fmt.Sprintf("Shard: %s", shard.id))
		for _, search := range shard.searches {
			renderForest(search.query)
			if search.hasRewrite {
				lines = append(lines, renderRewrite(search.rewriteNanos))
			}
			renderForest(search.collector)
		}
		renderForest(shard.aggregations)
		lines = append(lines, "")
	}
	return lines, nil
}

func cmdReport(w io.Writer, doc *profileDocument, opts renderOptions, st reportStyle) error {
	lines, err := assembleReport(doc, opts, st)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	return err
}
