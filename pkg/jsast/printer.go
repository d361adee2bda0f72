package jsast

import (
	"io"
	"strings"
)

// Print renders the subtree as source text, including its leading trivia.
func Print(root *Node) string {
	if root == nil {
		return ""
	}

	var buf strings.Builder

	writeNode(&buf, root)

	return buf.String()
}

// Fprint writes the rendered subtree to w.
func Fprint(w io.Writer, root *Node) error {
	_, err := io.WriteString(w, Print(root))

	return err //nolint:wrapcheck // io errors surface unchanged to the writer's owner.
}

func writeNode(buf *strings.Builder, targetNode *Node) {
	if targetNode.IsLeaf() {
		buf.WriteString(targetNode.Lead)
		buf.WriteString(targetNode.Token)
	} else {
		for _, child := range targetNode.Children {
			writeNode(buf, child)
		}
	}

	buf.WriteString(targetNode.Trail)
}
