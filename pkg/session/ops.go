package session

import (
	"context"
	"io"
	"time"

	"github.com/matzehuels/canvaskit/pkg/clipboard"
	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/diagram/align"
	"github.com/matzehuels/canvaskit/pkg/diagram/group"
	"github.com/matzehuels/canvaskit/pkg/errors"
	canvasio "github.com/matzehuels/canvaskit/pkg/io"
	"github.com/matzehuels/canvaskit/pkg/observability"
	"github.com/matzehuels/canvaskit/pkg/pipeline"
)

// =============================================================================
// Grouping
// =============================================================================

// Group wraps the listed nodes in a new group labelled label and returns
// the group's identifier ("group_N", the first one unused).
func (s *Session) Group(ctx context.Context, ids []string, label string) (string, error) {
	if err := s.requireGroups("group"); err != nil {
		return "", err
	}
	var groupID string
	err := s.edit(ctx, "group", func(g diagram.Graph) (diagram.Graph, error) {
		counter := 0
		groupID = g.IDs().Fresh("group", &counter)
		return group.GroupNodes(g, ids, groupID, label)
	})
	return groupID, err
}

// Ungroup dissolves a group, releasing its children to the group's parent.
func (s *Session) Ungroup(ctx context.Context, groupID string) error {
	if err := s.requireGroups("ungroup"); err != nil {
		return err
	}
	return s.edit(ctx, "ungroup", func(g diagram.Graph) (diagram.Graph, error) {
		return group.UngroupNode(g, groupID)
	})
}

// Delete removes the listed nodes and edges, and every edge touching a
// deleted node. Deleted groups are dissolved first, so their children
// survive.
func (s *Session) Delete(ctx context.Context, ids []string) error {
	return s.edit(ctx, "delete", func(g diagram.Graph) (diagram.Graph, error) {
		if len(ids) == 0 {
			return g, errors.New(errors.ErrCodeInvalidInput, "nothing to delete")
		}
		edges := make(map[string]bool, len(g.Edges))
		for _, e := range g.Edges {
			edges[e.ID] = true
		}
		var nodeIDs, edgeIDs []string
		for _, id := range ids {
			if edges[id] {
				edgeIDs = append(edgeIDs, id)
			} else {
				nodeIDs = append(nodeIDs, id)
			}
		}
		if len(nodeIDs) > 0 {
			var err error
			if g, err = group.DeleteNodes(g, nodeIDs); err != nil {
				return g, err
			}
		}
		return g.Remove(edgeIDs...), nil
	})
}

// =============================================================================
// Alignment
// =============================================================================

// Align aligns the listed nodes to mode.
func (s *Session) Align(ctx context.Context, ids []string, mode align.Mode) error {
	return s.edit(ctx, "align", func(g diagram.Graph) (diagram.Graph, error) {
		nodes, err := selectAll(g, ids)
		if err != nil {
			return g, err
		}
		return g.WithNodes(align.Align(nodes, mode)), nil
	})
}

// Distribute spaces the listed nodes evenly along axis.
func (s *Session) Distribute(ctx context.Context, ids []string, axis align.Axis) error {
	return s.edit(ctx, "distribute", func(g diagram.Graph) (diagram.Graph, error) {
		nodes, err := selectAll(g, ids)
		if err != nil {
			return g, err
		}
		return g.WithNodes(align.Distribute(nodes, axis)), nil
	})
}

// =============================================================================
// Clipboard
// =============================================================================

// Copy puts the listed nodes, and the edges between them, on the
// clipboard. The graph is not changed and nothing is recorded.
func (s *Session) Copy(ctx context.Context, ids []string) (int, error) {
	if err := s.requireGraph("copy"); err != nil {
		return 0, err
	}
	nodes, err := selectAll(s.graph, ids)
	if err != nil {
		return 0, err
	}
	s.clipboard.Copy(nodes, s.graph.InternalEdges(nodes))
	observability.Edit().OnOperation(ctx, "copy", len(s.graph.Nodes), 0, nil)
	return len(nodes), nil
}

// Paste inserts a fresh copy of the clipboard and returns the identifiers
// of the new nodes. The copies become the selection. Pasting an empty
// clipboard is a no-op.
func (s *Session) Paste(ctx context.Context) ([]string, error) {
	if s.clipboard.Empty() {
		return nil, s.requireGraph("paste")
	}
	var ids []string
	err := s.edit(ctx, "paste", func(g diagram.Graph) (diagram.Graph, error) {
		sel := s.clipboard.Paste(s.pasteOptions(g))
		ids = insert(&g, sel)
		return g, nil
	})
	return ids, err
}

// Duplicate copies the listed nodes in place, without touching the
// clipboard, and returns the identifiers of the new nodes.
func (s *Session) Duplicate(ctx context.Context, ids []string) ([]string, error) {
	var out []string
	err := s.edit(ctx, "duplicate", func(g diagram.Graph) (diagram.Graph, error) {
		nodes, err := selectAll(g, ids)
		if err != nil {
			return g, err
		}
		sel := clipboard.Duplicate(clipboard.Select(nodes, g.InternalEdges(nodes)), s.pasteOptions(g))
		out = insert(&g, sel)
		return g, nil
	})
	return out, err
}

func (s *Session) pasteOptions(g diagram.Graph) clipboard.Options {
	opts := s.opts.Paste
	if opts.NewID == nil {
		opts.NewID = clipboard.Unique(g.IDs(), "copy")
	}
	return opts
}

// insert deselects every node of g, appends sel and returns the new node
// identifiers.
func insert(g *diagram.Graph, sel clipboard.Selection) []string {
	for i := range g.Nodes {
		g.Nodes[i].Selected = false
	}
	ids := make([]string, 0, len(sel.Nodes))
	for _, n := range sel.Nodes {
		ids = append(ids, n.ID)
	}
	g.Nodes = append(g.Nodes, sel.Nodes...)
	g.Edges = append(g.Edges, sel.Edges...)
	return ids
}

// =============================================================================
// History
// =============================================================================

// Undo restores the previous snapshot. It returns false when there is
// nothing to undo.
func (s *Session) Undo(ctx context.Context) bool {
	return s.step(ctx, "undo", s.graphs.Undo, s.sources.Undo)
}

// Redo restores the next snapshot. It returns false when there is nothing
// to redo.
func (s *Session) Redo(ctx context.Context) bool {
	return s.step(ctx, "redo", s.graphs.Redo, s.sources.Redo)
}

func (s *Session) step(ctx context.Context, op string, graphs func() (diagram.Graph, bool), sources func() (string, bool)) bool {
	start := time.Now()
	var ok bool
	if s.spec.TextBased {
		var src string
		if src, ok = sources(); ok {
			s.setSource(src)
		}
	} else {
		var g diagram.Graph
		if g, ok = graphs(); ok {
			// The snapshot is restored through commit like any other change;
			// the history skips recording it.
			s.commit(g.Clone())
		}
	}
	if ok {
		observability.Edit().OnOperation(ctx, op, len(s.graph.Nodes), time.Since(start), nil)
	}
	return ok
}

// RecordSource replaces the source text of a text-based diagram and
// records it. Recording text identical to the current source is a no-op.
func (s *Session) RecordSource(ctx context.Context, src string) error {
	if !s.spec.TextBased {
		return errors.New(errors.ErrCodeUnsupported, "%s diagrams are edited as graphs, not source", s.Kind)
	}
	if src == s.source {
		return nil
	}
	s.setSource(src)
	observability.Edit().OnOperation(ctx, "record", 0, 0, nil)
	return nil
}

func (s *Session) setSource(src string) {
	s.source = src
	s.sources.Record(src)
	s.UpdatedAt = s.opts.Now().UTC()
}

// =============================================================================
// Import and Export
// =============================================================================

// Import reads a document onto the live graph with runner, asking choose
// when the graph is not empty. The live graph changes only if the import
// ends Applied.
func (s *Session) Import(ctx context.Context, runner *pipeline.Runner, src io.Reader, format canvasio.Format, choose pipeline.Chooser) (*pipeline.Import, error) {
	if err := s.requireGraph("import"); err != nil {
		return nil, err
	}
	start := time.Now()
	imp, err := runner.Run(ctx, s.graph, src, format, choose)
	if err == nil && imp.State() == pipeline.StateApplied {
		s.commit(imp.Graph())
		if k := imp.Result().Kind; k != "" && k != s.Kind {
			runner.Logger.Warn("imported document has a different kind", "document", k, "diagram", s.Kind)
		}
	}
	observability.Edit().OnOperation(ctx, "import", len(s.graph.Nodes), time.Since(start), err)
	return imp, err
}

// Export converts the live graph to an interchange document stamped with
// the session clock.
func (s *Session) Export() canvasio.Document {
	return canvasio.Export(s.graph, s.Name, s.Kind, s.opts.Now())
}

// selectAll resolves ids against g and fails if any is missing.
func selectAll(g diagram.Graph, ids []string) ([]diagram.Node, error) {
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no nodes selected")
	}
	nodes, missing := g.Select(ids)
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %q not found", missing[0])
	}
	return nodes, nil
}
