package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestPrintStats(t *testing.T) {
	buf := captureOutput(t)
	g := diagram.Graph{
		Nodes: []diagram.Node{
			{ID: "g", Type: diagram.TypeGroup},
			{ID: "a"},
			{ID: "b"},
		},
		Edges: []diagram.Edge{{ID: "e", Source: "a", Target: "b"}},
	}
	printStats(g, true)

	out := buf.String()
	for _, want := range []string{"2 nodes", "1 groups", "1 edges", "cached"} {
		if !strings.Contains(out, want) {
			t.Errorf("printStats() = %q, missing %q", out, want)
		}
	}
}

func TestPrintFieldErrors(t *testing.T) {
	buf := captureOutput(t)
	var fields errors.ValidationErrors
	fields.Add("", "document must be an object")
	fields.Add("nodes[0].id", "must not be empty")
	printFieldErrors(fields)

	out := buf.String()
	for _, want := range []string{"2 problems found", "(document)", "nodes[0].id", "must not be empty"} {
		if !strings.Contains(out, want) {
			t.Errorf("printFieldErrors() = %q, missing %q", out, want)
		}
	}
}

func TestStatusLines(t *testing.T) {
	buf := captureOutput(t)
	printSuccess("saved %s", "shop")
	printWarning("edge %s dropped", "e1")
	printInfo("nothing to undo")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"saved shop", "edge e1 dropped", "nothing to undo"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}
