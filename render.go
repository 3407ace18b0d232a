package main

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	verboseAboveThreshold = 1
	verboseAll            = 2
)

const indentUnit = "   "

type renderOptions struct {
	millisThreshold int // highlight at or above, in ms
	maxDepth        int // 0 = unlimited
	verbosity       int
}

// formatMillis prints nanoseconds as milliseconds in the shortest exact
// form: 2000000 → "2", 500000 → "0.5".
func formatMillis(nanos int64) string {
	return strconv.FormatFloat(nanosToMillis(nanos), 'f', -1, 64)
}

func (o renderOptions) above(nanos int64) bool {
	return nanosToMillis(nanos) >= float64(o.millisThreshold)
}

// renderNodes turns a flattened tree into report lines. Nodes at depth
// maxDepth or deeper are skipped.
func renderNodes(nodes []flatNode, opts renderOptions, st reportStyle) []string {
	var lines []string
	for _, fn := range nodes {
		if opts.maxDepth > 0 && fn.depth >= opts.maxDepth {
			continue
		}
		lines = append(lines, renderNode(fn, opts, st)...)
	}
	return lines
}

func renderNode(fn flatNode, opts renderOptions, st reportStyle) []string {
	n := fn.node
	pad := strings.Repeat(indentUnit, fn.depth)
	above := opts.above(n.elapsedNanos)

	content := fmt.Sprintf("%s> %s %s ms", pad, n.name, formatMillis(n.elapsedNanos))
	lines := []string{st.mark(content, above)}

	if opts.verbosity < verboseAll && (opts.verbosity != verboseAboveThreshold || !above) {
		return lines
	}

	inner := pad + indentUnit
	if n.description != "" {
		lines = append(lines, fmt.Sprintf("%sdescription: %s", inner, n.description))
	}
	if n.breakdown != nil {
		for pair := n.breakdown.Oldest(); pair != nil; pair = pair.Next() {
			entry := fmt.Sprintf("%s%s: %s", inner, pair.Key, formatMillis(pair.Value))
			lines = append(lines, st.mark(entry, opts.above(pair.Value)))
		}
	}
	return lines
}

func renderRewrite(nanos int64) string {
	return fmt.Sprintf("> rewrite_time %s ms", formatMillis(nanos))
}
