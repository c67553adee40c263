// Package session is the editing session for one diagram: the live graph,
// its undo/redo history and the clipboard, with every editing operation the
// CLI and API expose.
//
// # How Edits Flow
//
// Every operation computes a new graph with the pure engines in
// pkg/diagram/group, pkg/diagram/align, pkg/clipboard and pkg/io, then
// commits it. Committing replaces the live graph and records a snapshot in
// the history. Undo and redo restore a snapshot through the same commit,
// and the history's echo suppression keeps that from being recorded twice.
//
// Text-based diagram kinds (such as sequence diagrams) have no graph to
// edit. Their sessions record source text with [Session.RecordSource] and
// undo and redo walk a text history instead.
//
// # Persistence
//
// A session can be saved to a [Store] and loaded again, history included,
// so that consecutive CLI invocations behave like one editor:
//
//	store, err := session.NewFileStore("", registry, session.DefaultOptions()) // ~/.config/canvaskit/sessions/
//	sess, err := store.Get(ctx, "checkout")
//	if sess == nil {
//	    sess, err = session.New("checkout", diagram.KindArchitecture, registry, session.DefaultOptions())
//	}
//	if _, err := sess.Group(ctx, []string{"api", "db"}, "Backend"); err != nil {
//	    return err
//	}
//	return store.Set(ctx, sess)
//
// The clipboard is not part of the saved session. It is shared by every
// diagram of a workspace and lives in a cache; see [clipboard.Load].
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/canvaskit/pkg/clipboard"
	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
	"github.com/matzehuels/canvaskit/pkg/history"
	"github.com/matzehuels/canvaskit/pkg/observability"
)

// Options tunes a session.
type Options struct {
	// HistoryLimit caps the undo log; zero means [history.DefaultLimit].
	HistoryLimit int
	// Paste controls clipboard placement for Paste and Duplicate. A nil
	// NewID draws "copy_N" identifiers unused in the diagram.
	Paste clipboard.Options
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// DefaultOptions returns the standard session settings.
func DefaultOptions() Options {
	paste := clipboard.DefaultOptions()
	paste.NewID = nil
	return Options{
		HistoryLimit: history.DefaultLimit,
		Paste:        paste,
	}
}

// Session is one diagram being edited. It is not safe for concurrent use.
type Session struct {
	ID        string
	Name      string
	Kind      diagram.Kind
	CreatedAt time.Time
	UpdatedAt time.Time

	spec      diagram.KindSpec
	opts      Options
	graph     diagram.Graph
	source    string
	graphs    *history.History[diagram.Graph]
	sources   *history.History[string]
	clipboard *clipboard.Clipboard
}

// New starts an empty session named name. The kind must be enabled in
// registry; an empty kind means architecture.
func New(name string, kind diagram.Kind, registry diagram.Registry, opts Options) (*Session, error) {
	if err := errors.ValidateDiagramName(name); err != nil {
		return nil, err
	}
	if kind == "" {
		kind = diagram.KindArchitecture
	}
	spec, err := registry.Lookup(kind)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	now := opts.Now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
		spec:      spec,
		opts:      opts,
		graphs:    history.New[diagram.Graph](opts.HistoryLimit),
		sources:   history.New[string](opts.HistoryLimit),
		clipboard: &clipboard.Clipboard{},
	}
	if spec.TextBased {
		s.sources.Record("")
	} else {
		s.graphs.Record(diagram.Graph{})
	}
	return s, nil
}

// Graph returns a copy of the live graph.
func (s *Session) Graph() diagram.Graph { return s.graph.Clone() }

// Source returns the live source text of a text-based diagram.
func (s *Session) Source() string { return s.source }

// Spec returns what the session's diagram kind supports.
func (s *Session) Spec() diagram.KindSpec { return s.spec }

// Clipboard returns the session's clipboard.
func (s *Session) Clipboard() *clipboard.Clipboard { return s.clipboard }

// SetClipboard replaces the session's clipboard, typically with one loaded
// from a cache. A nil clipboard means an empty one.
func (s *Session) SetClipboard(cb *clipboard.Clipboard) {
	if cb == nil {
		cb = &clipboard.Clipboard{}
	}
	s.clipboard = cb
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool {
	if s.spec.TextBased {
		return s.sources.CanUndo()
	}
	return s.graphs.CanUndo()
}

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool {
	if s.spec.TextBased {
		return s.sources.CanRedo()
	}
	return s.graphs.CanRedo()
}

// HistoryInfo summarises the undo log.
type HistoryInfo struct {
	Len    int
	Cursor int
	Limit  int
	// Nodes is the node count of each graph snapshot, oldest first. It is
	// nil for text-based kinds.
	Nodes []int
	// Sizes is the byte length of each source snapshot, oldest first. It
	// is nil for graph kinds.
	Sizes []int
}

// History describes the undo log.
func (s *Session) History() HistoryInfo {
	if s.spec.TextBased {
		info := HistoryInfo{Len: s.sources.Len(), Cursor: s.sources.Cursor(), Limit: s.sources.Limit()}
		for _, src := range s.sources.Entries() {
			info.Sizes = append(info.Sizes, len(src))
		}
		return info
	}
	info := HistoryInfo{Len: s.graphs.Len(), Cursor: s.graphs.Cursor(), Limit: s.graphs.Limit()}
	for _, g := range s.graphs.Entries() {
		info.Nodes = append(info.Nodes, len(g.Nodes))
	}
	return info
}

// commit makes g the live graph and records it.
func (s *Session) commit(g diagram.Graph) {
	s.graph = g
	s.graphs.Record(g.Clone())
	s.UpdatedAt = s.opts.Now().UTC()
}

// edit runs fn on the live graph of a graph-based session, commits its
// result and reports the operation to the edit hooks.
func (s *Session) edit(ctx context.Context, op string, fn func(diagram.Graph) (diagram.Graph, error)) error {
	start := time.Now()
	err := s.requireGraph(op)
	if err == nil {
		var g diagram.Graph
		if g, err = fn(s.graph.Clone()); err == nil {
			s.commit(g)
		}
	}
	observability.Edit().OnOperation(ctx, op, len(s.graph.Nodes), time.Since(start), err)
	return err
}

func (s *Session) requireGraph(op string) error {
	if s.spec.TextBased {
		return errors.New(errors.ErrCodeUnsupported, "%s is not available for %s diagrams", op, s.Kind)
	}
	return nil
}

func (s *Session) requireGroups(op string) error {
	if !s.spec.Groups {
		return errors.New(errors.ErrCodeUnsupported, "%s is not available for %s diagrams", op, s.Kind)
	}
	return nil
}
