package clipboard

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/diagram"
)

func counter(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func root(id string, x, y float64) diagram.Node {
	return diagram.Node{
		ID:        id,
		Type:      diagram.TypeStandard,
		Placement: diagram.Absolute(diagram.Point{X: x, Y: y}),
		Data:      diagram.NodeData{Label: id, Tags: []string{"t"}},
	}
}

func nested(id, parent string, x, y float64) diagram.Node {
	n := root(id, x, y)
	n.Placement = diagram.Relative(parent, diagram.Point{X: x, Y: y})
	return n
}

func grp(id string, x, y float64) diagram.Node {
	n := root(id, x, y)
	n.Type = diagram.TypeGroup
	n.Data.IsGroup = true
	return n
}

func TestCopyEmptyKeepsPrevious(t *testing.T) {
	var cb Clipboard
	cb.Copy([]diagram.Node{root("a", 0, 0)}, nil)
	cb.Copy(nil, nil)
	if cb.Empty() || cb.Content().Nodes[0].ID != "a" {
		t.Error("copying nothing should keep the previous content")
	}
}

func TestCopyIsDeep(t *testing.T) {
	nodes := []diagram.Node{root("a", 0, 0)}
	var cb Clipboard
	cb.Copy(nodes, nil)
	nodes[0].Data.Tags[0] = "changed"
	nodes[0].Placement.X = 999
	got := cb.Content().Nodes[0]
	if got.Data.Tags[0] != "t" || got.Position().X != 0 {
		t.Errorf("clipboard aliases copied nodes: %+v", got)
	}
}

func TestCopyKeepsInternalEdges(t *testing.T) {
	nodes := []diagram.Node{root("a", 0, 0), root("b", 0, 0)}
	edges := []diagram.Edge{
		{ID: "ab", Source: "a", Target: "b"},
		{ID: "ax", Source: "a", Target: "x"},
	}
	var cb Clipboard
	cb.Copy(nodes, edges)
	if got := cb.Content().Edges; len(got) != 1 || got[0].ID != "ab" {
		t.Errorf("stored edges = %+v, want only ab", got)
	}
}

func TestPaste(t *testing.T) {
	var cb Clipboard
	cb.Copy([]diagram.Node{root("a", 10, 20), nested("b", "outside", 5, 5)},
		[]diagram.Edge{{ID: "e", Source: "a", Target: "b", Data: &diagram.EdgeData{Label: "calls"}}})

	opts := DefaultOptions()
	opts.NewID = counter("n")
	out := cb.Paste(opts)

	if len(out.Nodes) != 2 {
		t.Fatalf("pasted %d nodes, want 2", len(out.Nodes))
	}
	a, b := out.Nodes[0], out.Nodes[1]
	if a.ID != "n1" || b.ID != "n2" {
		t.Errorf("ids = %s, %s", a.ID, b.ID)
	}
	if a.Position() != (diagram.Point{X: 60, Y: 70}) {
		t.Errorf("a position = %v", a.Position())
	}
	if !a.Selected || !b.Selected {
		t.Error("pasted items should be selected")
	}
	if b.Parent() != "" || b.Position() != (diagram.Point{X: 55, Y: 55}) {
		t.Errorf("b placement = %+v, want root at (55,55)", b.Placement)
	}

	if len(out.Edges) != 1 {
		t.Fatalf("pasted %d edges, want 1", len(out.Edges))
	}
	e := out.Edges[0]
	if e.ID != "n3" || e.Source != "n1" || e.Target != "n2" || e.Data.Label != "calls" {
		t.Errorf("edge = %+v", e)
	}
}

func TestPasteRepeatable(t *testing.T) {
	var cb Clipboard
	cb.Copy([]diagram.Node{root("a", 10, 20), root("b", 100, 20)},
		[]diagram.Edge{{ID: "e", Source: "a", Target: "b"}})
	before := cb.Content()

	first := cb.Paste(DefaultOptions())
	second := cb.Paste(DefaultOptions())

	if len(first.Nodes) != len(second.Nodes) || len(first.Edges) != len(second.Edges) {
		t.Fatal("batches differ in size")
	}
	for i := range first.Nodes {
		f, s := first.Nodes[i], second.Nodes[i]
		if f.ID == s.ID {
			t.Errorf("node %d reused id %s", i, f.ID)
		}
		if f.Position() != s.Position() || f.Data.Label != s.Data.Label || f.Parent() != s.Parent() {
			t.Errorf("node %d differs: %+v vs %+v", i, f, s)
		}
		if _, err := uuid.Parse(f.ID); err != nil {
			t.Errorf("default id %q is not a uuid: %v", f.ID, err)
		}
	}

	after := cb.Content()
	for i := range before.Nodes {
		if before.Nodes[i].ID != after.Nodes[i].ID || before.Nodes[i].Position() != after.Nodes[i].Position() {
			t.Errorf("stored node %d changed by paste", i)
		}
		if after.Nodes[i].Selected {
			t.Errorf("stored node %d marked selected", i)
		}
	}
}

func TestPasteKeepParent(t *testing.T) {
	var cb Clipboard
	cb.Copy([]diagram.Node{
		nested("inner", "g", 10, 10),
		grp("g", 100, 100),
		nested("stray", "outside", 1, 1),
	}, nil)

	out := cb.Paste(Options{Offset: diagram.Point{X: 50, Y: 50}, NewID: counter("c")})
	inner, g, stray := out.Nodes[0], out.Nodes[1], out.Nodes[2]

	if inner.Parent() != g.ID {
		t.Errorf("inner parent = %q, want copied group %q", inner.Parent(), g.ID)
	}
	if inner.Position() != (diagram.Point{X: 10, Y: 10}) {
		t.Errorf("inner should keep its relative position, got %v", inner.Position())
	}
	if g.Position() != (diagram.Point{X: 150, Y: 150}) {
		t.Errorf("group position = %v", g.Position())
	}
	if stray.Parent() != "outside" || stray.Position() != (diagram.Point{X: 51, Y: 51}) {
		t.Errorf("stray placement = %+v", stray.Placement)
	}
}

func TestDuplicateEmpty(t *testing.T) {
	out := Duplicate(Selection{}, DefaultOptions())
	if out.Len() != 0 || len(out.Edges) != 0 {
		t.Errorf("Duplicate(empty) = %+v", out)
	}
	var cb Clipboard
	if got := cb.Paste(DefaultOptions()); got.Len() != 0 {
		t.Errorf("Paste on empty clipboard = %+v", got)
	}
}

func TestDuplicateNilGenerator(t *testing.T) {
	out := Duplicate(Select([]diagram.Node{root("a", 0, 0)}, nil), Options{})
	if _, err := uuid.Parse(out.Nodes[0].ID); err != nil {
		t.Errorf("nil NewID should fall back to uuid: %v", err)
	}
}

func TestUnique(t *testing.T) {
	ids := diagram.IDSet{}
	ids.Add("node_1")
	gen := Unique(ids, "node")
	if got := gen(); got != "node_2" {
		t.Errorf("first = %s", got)
	}
	if got := gen(); got != "node_3" {
		t.Errorf("second = %s", got)
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()

	var cb Clipboard
	cb.Copy([]diagram.Node{grp("g", 0, 0), nested("a", "g", 5, 5)},
		[]diagram.Edge{{ID: "e", Source: "g", Target: "a"}})
	if err := cb.Save(ctx, c, "clipboard:default", DefaultTTL); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := Load(ctx, c, "clipboard:default")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	got := loaded.Content()
	if got.Len() != 2 || len(got.Edges) != 1 {
		t.Fatalf("loaded %+v", got)
	}
	if got.Nodes[1].Parent() != "g" || !got.Nodes[0].IsGroup() {
		t.Errorf("containment lost: %+v", got.Nodes)
	}
}

func TestLoadMissingOrCorrupt(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()

	cb, err := Load(ctx, c, "nothing")
	if err != nil || !cb.Empty() {
		t.Errorf("Load(missing) = %v, %v", cb, err)
	}

	_ = c.Set(ctx, "bad", []byte("{"), 0)
	cb, err = Load(ctx, c, "bad")
	if err != nil || !cb.Empty() {
		t.Errorf("Load(corrupt) = %v, %v", cb, err)
	}
	if _, hit, _ := c.Get(ctx, "bad"); hit {
		t.Error("corrupt entry should be discarded")
	}
}
