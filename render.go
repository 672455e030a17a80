package reltree

import "strings"

// LabelFunc produces the single-line textual representation of a node
// in a rendered tree.
type LabelFunc func(*Node) string

// Box-drawing connectors.
const (
	branchMid  = "├── "
	branchLast = "└── "
	trunkMid   = "│   "
	trunkLast  = "    "
)

// Render draws the subtree rooted at n as an indented multi-line
// string using box-drawing connectors, one node per line. A nil label
// function renders Node.VerboseLabel:
//
//	ModelOne
//	└── [M2M] ModelOne.model_two => ModelTwo
//	    └── [M2O] ModelTwo.model_three => ModelThree
//	        ├── [O2O] ModelThree.model_four => ModelFour
//	        └── [M2M] ModelThree.model_five => ModelFive
func (n *Node) Render(label LabelFunc) string {
	if label == nil {
		label = (*Node).VerboseLabel
	}
	var b strings.Builder
	b.WriteString(label(n))
	renderChildren(&b, n, "", label)
	return b.String()
}

func renderChildren(b *strings.Builder, n *Node, prefix string, label LabelFunc) {
	for i, c := range n.children {
		branch, trunk := branchMid, trunkMid
		if i == len(n.children)-1 {
			branch, trunk = branchLast, trunkLast
		}
		b.WriteString("\n")
		b.WriteString(prefix)
		b.WriteString(branch)
		b.WriteString(label(c))
		renderChildren(b, c, prefix+trunk, label)
	}
}
