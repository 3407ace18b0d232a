package main

import "unicode/utf8"

const labelWidth = 50

// nodeLabel is the name shown for a node in ranking tables:
// "TermQuery [title:foo]" style, clipped to the table column.
func nodeLabel(n *timingNode) string {
	label := n.name
	if label == "" {
		label = "(unnamed)"
	}
	if n.description != "" {
		label += " [" + n.description + "]"
	}
	return clip(label, labelWidth)
}

func clip(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

func truncate(n, top int) int {
	if top > 0 && top < n {
		return top
	}
	return n
}
