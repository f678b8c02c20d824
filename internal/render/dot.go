package render

import (
	"fmt"

	"github.com/emicklei/dot"
	"github.com/me/schedsim/pkg/model"
)

// DOT renders the tree as a Graphviz DOT digraph. Nodes are labeled
// "Name (duration)"; edges point from parent to child. Feed the output to
// `dot -Tpng` or any Graphviz viewer.
func DOT(root *model.Task) string {
	g := dot.NewGraph(dot.Directed)
	if root == nil {
		return g.String()
	}

	root.Walk(func(t *model.Task) {
		n := g.Node(t.Name)
		n.Label(fmt.Sprintf("%s (%d)", t.Name, t.Duration))
		for _, child := range t.Children {
			g.Edge(n, g.Node(child.Name))
		}
	})
	return g.String()
}
