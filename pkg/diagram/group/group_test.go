package group

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

const epsilon = 1e-9

func at(id string, x, y float64) diagram.Node {
	return diagram.Node{
		ID:        id,
		Type:      diagram.TypeStandard,
		Placement: diagram.Absolute(diagram.Point{X: x, Y: y}),
		Data:      diagram.NodeData{Label: id, NodeType: "service"},
	}
}

func in(id, parent string, x, y float64) diagram.Node {
	n := at(id, x, y)
	n.Placement = diagram.Relative(parent, diagram.Point{X: x, Y: y})
	return n
}

func box(id string, x, y, w, h float64) diagram.Node {
	return diagram.Node{
		ID:        id,
		Type:      diagram.TypeGroup,
		Placement: diagram.Absolute(diagram.Point{X: x, Y: y}),
		Size:      &diagram.Size{Width: w, Height: h},
		Data:      diagram.NodeData{Label: id, IsGroup: true},
	}
}

func near(a, b diagram.Point) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

func TestDepth(t *testing.T) {
	outer := box("outer", 0, 0, 500, 500)
	inner := box("inner", 10, 10, 200, 200)
	inner.Placement = diagram.Relative("outer", inner.Position())
	leaf := in("leaf", "inner", 5, 5)
	orphan := in("orphan", "gone", 0, 0)
	nodes := []diagram.Node{outer, inner, leaf, orphan}

	tests := []struct {
		n    diagram.Node
		want int
	}{
		{outer, 0},
		{inner, 1},
		{leaf, 2},
		{orphan, 0},
	}
	for _, tt := range tests {
		t.Run(tt.n.ID, func(t *testing.T) {
			if got := Depth(tt.n, nodes); got != tt.want {
				t.Errorf("Depth(%s) = %d, want %d", tt.n.ID, got, tt.want)
			}
		})
	}
}

func TestDepthPartialChain(t *testing.T) {
	mid := box("mid", 0, 0, 10, 10)
	mid.Placement = diagram.Relative("vanished", diagram.Point{})
	leaf := in("leaf", "mid", 0, 0)
	if got := Depth(leaf, []diagram.Node{mid, leaf}); got != 1 {
		t.Errorf("Depth() = %d, want partial depth 1", got)
	}
}

func TestDepthCycleTerminates(t *testing.T) {
	a := box("a", 0, 0, 10, 10)
	a.Placement = diagram.Relative("b", diagram.Point{})
	b := box("b", 0, 0, 10, 10)
	b.Placement = diagram.Relative("a", diagram.Point{})
	if got := Depth(a, []diagram.Node{a, b}); got != 2 {
		t.Errorf("Depth() = %d, want walk cut at 2", got)
	}
}

func TestCreate(t *testing.T) {
	a := at("a", 100, 100)
	b := at("b", 400, 300)
	b.Size = &diagram.Size{Width: 50, Height: 50}

	r := Create([]diagram.Node{a, b}, "g1", "Backend")

	g := r.Group
	if g.ID != "g1" || g.Data.Label != "Backend" || !g.IsGroup() {
		t.Errorf("group = %+v", g)
	}
	if !g.Placement.IsAbsolute() {
		t.Error("group must be created at the root")
	}
	// bounds (100,100)-(450,350), padded 40/50/40/40
	if want := (diagram.Point{X: 60, Y: 50}); g.Position() != want {
		t.Errorf("group position = %v, want %v", g.Position(), want)
	}
	if want := (diagram.Size{Width: 430, Height: 340}); *g.Size != want {
		t.Errorf("group size = %v, want %v", *g.Size, want)
	}

	if len(r.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(r.Children))
	}
	for _, c := range r.Children {
		if c.Parent() != "g1" || c.Containment() != diagram.ContainmentParent {
			t.Errorf("child %s placement = %+v", c.ID, c.Placement)
		}
	}
	if want := (diagram.Point{X: 40, Y: 50}); r.Children[0].Position() != want {
		t.Errorf("child a position = %v, want %v", r.Children[0].Position(), want)
	}
	if a.Parent() != "" {
		t.Error("Create mutated its input")
	}
}

func TestCreateNestedSelectionStaysRoot(t *testing.T) {
	n := in("a", "outer", 10, 10)
	r := Create([]diagram.Node{n}, "g", "G")
	if r.Group.Parent() != "" {
		t.Errorf("group parent = %q, want root", r.Group.Parent())
	}
}

func TestUngroup(t *testing.T) {
	root := box("g", 100, 200, 300, 300)
	nested := box("g", 100, 200, 300, 300)
	nested.Placement = diagram.Relative("outer", nested.Position())
	kids := []diagram.Node{in("a", "g", 10, 20), in("b", "g", 50, 60)}

	tests := []struct {
		name       string
		group      diagram.Node
		wantParent string
	}{
		{"root group", root, ""},
		{"nested group", nested, "outer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Ungroup(tt.group, kids)
			if out[0].Position() != (diagram.Point{X: 110, Y: 220}) {
				t.Errorf("a position = %v", out[0].Position())
			}
			if out[1].Position() != (diagram.Point{X: 150, Y: 260}) {
				t.Errorf("b position = %v", out[1].Position())
			}
			for _, c := range out {
				if c.Parent() != tt.wantParent {
					t.Errorf("%s parent = %q, want %q", c.ID, c.Parent(), tt.wantParent)
				}
			}
		})
	}
}

func TestGroupingRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 200; trial++ {
		count := 1 + rng.IntN(8)
		nodes := make([]diagram.Node, count)
		for i := range nodes {
			n := at(string(rune('a'+i)), rng.Float64()*2000-1000, rng.Float64()*2000-1000)
			if rng.IntN(2) == 0 {
				n.Size = &diagram.Size{Width: 1 + rng.Float64()*300, Height: 1 + rng.Float64()*300}
			}
			nodes[i] = n
		}

		r := Create(nodes, "g", "label")
		restored := Ungroup(r.Group, r.Children)
		for i, n := range restored {
			if !near(n.Position(), nodes[i].Position()) {
				t.Fatalf("trial %d: %s at %v, want %v", trial, n.ID, n.Position(), nodes[i].Position())
			}
			if n.Parent() != "" {
				t.Fatalf("trial %d: %s still has parent %q", trial, n.ID, n.Parent())
			}
		}
	}
}

func TestAssignRemove(t *testing.T) {
	g := box("g", 100, 100, 400, 400)
	n := at("a", 150, 250)

	assigned := Assign(n, g)
	if assigned.Parent() != "g" || assigned.Position() != (diagram.Point{X: 50, Y: 150}) {
		t.Errorf("Assign() = %+v", assigned.Placement)
	}
	removed := Remove(assigned, g)
	if removed.Parent() != "" || removed.Position() != n.Position() {
		t.Errorf("Remove() = %+v, want original placement", removed.Placement)
	}
}

func TestFindAt(t *testing.T) {
	big := box("big", 0, 0, 1000, 1000)
	small := box("small", 100, 100, 100, 100)
	plain := at("plain", 100, 100)

	tests := []struct {
		name    string
		p       diagram.Point
		groups  []diagram.Node
		exclude string
		want    string
	}{
		{"first match wins", diagram.Point{X: 150, Y: 150}, []diagram.Node{big, small}, "", "big"},
		{"iteration order", diagram.Point{X: 150, Y: 150}, []diagram.Node{small, big}, "", "small"},
		{"exclude self", diagram.Point{X: 150, Y: 150}, []diagram.Node{big, small}, "big", "small"},
		{"edge inclusive", diagram.Point{X: 200, Y: 200}, []diagram.Node{small}, "", "small"},
		{"miss", diagram.Point{X: 5000, Y: 0}, []diagram.Node{big, small}, "", ""},
		{"non-groups ignored", diagram.Point{X: 150, Y: 150}, []diagram.Node{plain}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindAt(tt.p, tt.groups, tt.exclude)
			if tt.want == "" {
				if ok {
					t.Errorf("FindAt() = %s, want no match", got.ID)
				}
				return
			}
			if !ok || got.ID != tt.want {
				t.Errorf("FindAt() = %q (%v), want %q", got.ID, ok, tt.want)
			}
		})
	}
}

func TestDescendants(t *testing.T) {
	inner := box("inner", 0, 0, 10, 10)
	inner.Placement = diagram.Relative("outer", diagram.Point{})
	nodes := []diagram.Node{
		box("outer", 0, 0, 100, 100),
		inner,
		in("x", "outer", 0, 0),
		in("y", "inner", 0, 0),
		at("z", 0, 0),
	}
	got := Descendants("outer", nodes)
	want := []string{"inner", "y", "x"}
	if len(got) != len(want) {
		t.Fatalf("Descendants() = %d nodes, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Descendants()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if got := Descendants("z", nodes); len(got) != 0 {
		t.Errorf("Descendants(leaf) = %v, want empty", got)
	}
}

func TestAbsolutePosition(t *testing.T) {
	inner := box("inner", 10, 20, 100, 100)
	inner.Placement = diagram.Relative("outer", inner.Position())
	leaf := in("leaf", "inner", 1, 2)
	nodes := []diagram.Node{box("outer", 100, 200, 500, 500), inner, leaf}
	if got, want := AbsolutePosition(leaf, nodes), (diagram.Point{X: 111, Y: 222}); got != want {
		t.Errorf("AbsolutePosition() = %v, want %v", got, want)
	}
}

func TestGroupNodes(t *testing.T) {
	outer := box("outer", 1000, 1000, 500, 500)
	g := diagram.Graph{
		Nodes: []diagram.Node{at("a", 0, 0), outer, in("b", "outer", 100, 100), at("c", 500, 500)},
		Edges: []diagram.Edge{{ID: "e", Source: "a", Target: "b"}},
	}

	out, err := GroupNodes(g, []string{"b", "a"}, "g1", "Pair")
	if err != nil {
		t.Fatalf("GroupNodes() error: %v", err)
	}
	if err := diagram.Check(out); err != nil {
		t.Fatalf("result fails Check: %v", err)
	}
	if out.Nodes[0].ID != "g1" {
		t.Errorf("group inserted at %s, want before first selected node", out.Nodes[0].ID)
	}
	b, _ := out.Node("b")
	if b.Parent() != "g1" {
		t.Errorf("b parent = %q, want g1", b.Parent())
	}
	if got := AbsolutePosition(b, out.Nodes); got != (diagram.Point{X: 1100, Y: 1100}) {
		t.Errorf("b absolute position moved to %v", got)
	}
	if len(out.Edges) != 1 {
		t.Error("edges should be kept")
	}
}

func TestGroupNodesKeepsNestedSelection(t *testing.T) {
	outer := box("outer", 0, 0, 500, 500)
	g := diagram.Graph{Nodes: []diagram.Node{outer, in("x", "outer", 10, 10)}}
	out, err := GroupNodes(g, []string{"outer", "x"}, "g", "G")
	if err != nil {
		t.Fatalf("GroupNodes() error: %v", err)
	}
	x, _ := out.Node("x")
	if x.Parent() != "outer" || x.Position() != (diagram.Point{X: 10, Y: 10}) {
		t.Errorf("x placement = %+v, want unchanged", x.Placement)
	}
	o, _ := out.Node("outer")
	if o.Parent() != "g" {
		t.Errorf("outer parent = %q, want g", o.Parent())
	}
}

func TestGroupNodesErrors(t *testing.T) {
	g := diagram.Graph{Nodes: []diagram.Node{at("a", 0, 0)}}
	tests := []struct {
		name    string
		ids     []string
		groupID string
		code    errors.Code
	}{
		{"empty selection", nil, "g", errors.ErrCodeInvalidInput},
		{"empty id", []string{"a"}, "", errors.ErrCodeInvalidInput},
		{"padded id", []string{"a"}, "g ", errors.ErrCodeInvalidInput},
		{"control character in id", []string{"a"}, "g\x07", errors.ErrCodeInvalidInput},
		{"id in use", []string{"a"}, "a", errors.ErrCodeInvalidInput},
		{"unknown node", []string{"zz"}, "g", errors.ErrCodeNodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GroupNodes(g, tt.ids, tt.groupID, "x")
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestUngroupNode(t *testing.T) {
	g := diagram.Graph{
		Nodes: []diagram.Node{box("g", 100, 100, 300, 300), in("a", "g", 10, 10), at("b", 0, 0)},
		Edges: []diagram.Edge{{ID: "e1", Source: "g", Target: "b"}, {ID: "e2", Source: "a", Target: "b"}},
	}
	out, err := UngroupNode(g, "g")
	if err != nil {
		t.Fatalf("UngroupNode() error: %v", err)
	}
	if _, ok := out.Node("g"); ok {
		t.Error("group should be removed")
	}
	a, _ := out.Node("a")
	if a.Parent() != "" || a.Position() != (diagram.Point{X: 110, Y: 110}) {
		t.Errorf("a placement = %+v", a.Placement)
	}
	if len(out.Edges) != 1 || out.Edges[0].ID != "e2" {
		t.Errorf("edges = %+v, want only e2", out.Edges)
	}

	if _, err := UngroupNode(g, "b"); !errors.Is(err, errors.ErrCodeGroupNotFound) {
		t.Errorf("UngroupNode(non-group) error = %v", err)
	}
}

func TestDeleteNodes(t *testing.T) {
	inner := box("inner", 10, 10, 100, 100)
	inner.Placement = diagram.Relative("outer", inner.Position())
	g := diagram.Graph{
		Nodes: []diagram.Node{box("outer", 100, 100, 500, 500), inner, in("leaf", "inner", 1, 1)},
	}
	out, err := DeleteNodes(g, []string{"outer", "inner"})
	if err != nil {
		t.Fatalf("DeleteNodes() error: %v", err)
	}
	if len(out.Nodes) != 1 {
		t.Fatalf("nodes = %d, want 1", len(out.Nodes))
	}
	leaf := out.Nodes[0]
	if leaf.Parent() != "" || leaf.Position() != (diagram.Point{X: 111, Y: 111}) {
		t.Errorf("leaf placement = %+v, want root at (111,111)", leaf.Placement)
	}
	if err := diagram.Check(out); err != nil {
		t.Errorf("result fails Check: %v", err)
	}
}
