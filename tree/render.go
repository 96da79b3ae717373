package tree

import (
	"strings"

	"github.com/brettbedarf/stshell"
)

// Render draws the tree like the unix tree command, one node per line.
// Leaves show their id and resource type; child order is preserved.
func Render(nodes []stshell.ResourceNode) string {
	var b strings.Builder
	render(&b, nodes, "")
	return b.String()
}

func render(b *strings.Builder, nodes []stshell.ResourceNode, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}
		b.WriteString(prefix + connector)

		switch n := n.(type) {
		case stshell.Leaf:
			b.WriteString(n.Text + " [" + n.ResourceType + "] " + n.ID + "\n")
		case stshell.Branch:
			b.WriteString(n.Text + "/\n")
			render(b, n.Children, prefix+indent)
		}
	}
}
