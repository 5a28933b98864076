package tree

import "strings"

// Walk visits n and its descendants in pre-order, depth first. Returning false
// from fn skips the children of the node just visited.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Text concatenates the literal text under n in document order with no
// separators: Value for literal nodes, Alt for images, children otherwise.
func Text(n *Node) string {
	var sb strings.Builder
	writeText(&sb, n)
	return sb.String()
}

func writeText(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindText, KindInlineCode, KindCode, KindHTML:
		sb.WriteString(n.Value)
		return
	case KindImage:
		sb.WriteString(n.Alt)
		return
	}
	for _, c := range n.Children {
		writeText(sb, c)
	}
}
