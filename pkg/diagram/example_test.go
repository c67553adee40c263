package diagram_test

import (
	"fmt"

	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

func ExampleBoundsOf() {
	nodes := []diagram.Node{
		{ID: "api", Placement: diagram.Absolute(diagram.Point{X: 0, Y: 0})},
		{ID: "db", Placement: diagram.Absolute(diagram.Point{X: 300, Y: 120})},
	}
	b := diagram.BoundsOf(nodes)
	fmt.Printf("x=%.0f y=%.0f w=%.0f h=%.0f\n", b.X, b.Y, b.Width, b.Height)
	// Output:
	// x=0 y=0 w=480 h=200
}

func ExampleCheck() {
	g := diagram.Graph{
		Nodes: []diagram.Node{
			{ID: "api", Placement: diagram.Relative("vpc", diagram.Point{X: 10, Y: 50})},
		},
		Edges: []diagram.Edge{{ID: "e1", Source: "api", Target: "db"}},
	}
	for _, fe := range errors.Fields(diagram.Check(g)) {
		fmt.Println(fe)
	}
	// Output:
	// nodes[0].parent: references missing node "vpc"
	// edges[0].target: references missing node "db"
}
