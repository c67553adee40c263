package io

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/canvaskit/pkg/diagram"
)

func leaf(id, label string, x, y float64) diagram.Node {
	return diagram.Node{
		ID:        id,
		Type:      diagram.TypeStandard,
		Placement: diagram.Absolute(diagram.Point{X: x, Y: y}),
		Data:      diagram.NodeData{Label: label, NodeType: "service"},
	}
}

func TestMergeRenamesCollisions(t *testing.T) {
	existing := diagram.Graph{
		Nodes: []diagram.Node{leaf("A", "existing A", 0, 0), leaf("B", "B", 200, 0)},
		Edges: []diagram.Edge{{ID: "e1", Source: "A", Target: "B"}},
	}
	imported := diagram.Graph{
		Nodes: []diagram.Node{leaf("A", "imported A", 10, 10), leaf("C", "C", 50, 50)},
		Edges: []diagram.Edge{{ID: "e1", Source: "A", Target: "C"}},
	}

	m := Merge(existing, imported, DefaultMergeOffset)
	require.NoError(t, diagram.Check(m.Graph))

	seen := make(map[string]bool)
	for _, n := range m.Graph.Nodes {
		assert.False(t, seen[n.ID], "duplicate node %s", n.ID)
		seen[n.ID] = true
	}
	for _, e := range m.Graph.Edges {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
		assert.True(t, seen[e.Source] && seen[e.Target], "edge %s does not resolve", e.ID)
	}

	a, _ := m.Graph.Node("A")
	assert.Equal(t, "existing A", a.Data.Label, "existing nodes are never modified")
	assert.Equal(t, diagram.Point{}, a.Position())

	renamed, ok := m.Graph.Node("node_1")
	require.True(t, ok)
	assert.Equal(t, "imported A", renamed.Data.Label)
	assert.Equal(t, diagram.Point{X: 310, Y: 110}, renamed.Position())

	c, _ := m.Graph.Node("C")
	assert.Equal(t, diagram.Point{X: 350, Y: 150}, c.Position(), "unique ids are kept")

	assert.Equal(t, map[string]string{"A": "node_1", "e1": "edge_1"}, m.Renamed)
	last := m.Graph.Edges[len(m.Graph.Edges)-1]
	assert.Equal(t, diagram.Edge{ID: "edge_1", Source: "node_1", Target: "C"}, last)
}

func TestMergeGroupsAndNesting(t *testing.T) {
	existing := diagram.Graph{Nodes: []diagram.Node{
		{ID: "vpc", Type: diagram.TypeGroup, Data: diagram.NodeData{Label: "VPC", IsGroup: true}},
		leaf("group_1", "squatter", 0, 0),
	}}
	imported := diagram.Graph{Nodes: []diagram.Node{
		{ID: "vpc", Type: diagram.TypeGroup, Placement: diagram.Absolute(diagram.Point{X: 5, Y: 5}), Data: diagram.NodeData{Label: "VPC 2", IsGroup: true}},
		{ID: "api", Type: diagram.TypeStandard, Placement: diagram.Relative("vpc", diagram.Point{X: 40, Y: 50}), Data: diagram.NodeData{Label: "API", NodeType: "service"}},
		{ID: "orphan", Type: diagram.TypeStandard, Placement: diagram.Relative("elsewhere", diagram.Point{X: 1, Y: 2}), Data: diagram.NodeData{Label: "O", NodeType: "service"}},
	}}

	m := Merge(existing, imported, diagram.Point{X: 100, Y: 100})
	require.NoError(t, diagram.Check(m.Graph))

	g, ok := m.Graph.Node("group_2")
	require.True(t, ok, "group_1 is taken, so the renamed group skips it")
	assert.Equal(t, "VPC 2", g.Data.Label)
	assert.Equal(t, diagram.Point{X: 105, Y: 105}, g.Position())

	api, _ := m.Graph.Node("api")
	assert.Equal(t, diagram.Relative("group_2", diagram.Point{X: 40, Y: 50}), api.Placement, "nested nodes are not offset")

	orphan, _ := m.Graph.Node("orphan")
	assert.Equal(t, diagram.Absolute(diagram.Point{X: 101, Y: 102}), orphan.Placement)
}

func TestMergeDuplicateImportedIDs(t *testing.T) {
	imported := diagram.Graph{
		Nodes: []diagram.Node{leaf("a", "first", 0, 0), leaf("a", "second", 50, 0), leaf("b", "B", 100, 0)},
		Edges: []diagram.Edge{{ID: "e", Source: "a", Target: "b"}},
	}
	m := Merge(diagram.Graph{}, imported, diagram.Point{})
	require.NoError(t, diagram.Check(m.Graph))

	second, ok := m.Graph.Node("node_1")
	require.True(t, ok)
	assert.Equal(t, "second", second.Data.Label)
	assert.Equal(t, "a", m.Graph.Edges[0].Source, "edges keep pointing at the first duplicate")
	assert.Empty(t, m.Renamed)
}

func TestMergeIntoEmpty(t *testing.T) {
	imported := diagram.Graph{Nodes: []diagram.Node{leaf("a", "A", 0, 0)}}
	m := Merge(diagram.Graph{}, imported, diagram.Point{})
	assert.Empty(t, m.Renamed)
	assert.Equal(t, imported.Nodes, m.Graph.Nodes)
}

func TestMergeDoesNotAliasInputs(t *testing.T) {
	imported := diagram.Graph{Nodes: []diagram.Node{leaf("a", "A", 0, 0)}}
	imported.Nodes[0].Data.Tags = []string{"x"}
	m := Merge(diagram.Graph{}, imported, diagram.Point{})
	m.Graph.Nodes[0].Data.Tags[0] = "changed"
	assert.Equal(t, "x", imported.Nodes[0].Data.Tags[0])
}

func ExampleMerge() {
	existing := diagram.Graph{Nodes: []diagram.Node{leaf("api", "API", 0, 0)}}
	imported := diagram.Graph{Nodes: []diagram.Node{leaf("api", "API v2", 0, 0)}}

	m := Merge(existing, imported, DefaultMergeOffset)
	for _, n := range m.Graph.Nodes {
		fmt.Printf("%s %q at %v,%v\n", n.ID, n.Data.Label, n.Position().X, n.Position().Y)
	}
	// Output:
	// api "API" at 0,0
	// node_1 "API v2" at 300,100
}
