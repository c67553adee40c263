package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/canvaskit/pkg/clipboard"
	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
	"github.com/matzehuels/canvaskit/pkg/history"
)

// record is the persisted form of a session.
type record struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Kind         diagram.Kind    `json:"kind"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Graph        diagram.Graph   `json:"graph"`
	History      []diagram.Graph `json:"history,omitempty"`
	Cursor       int             `json:"cursor"`
	Source       string          `json:"source,omitempty"`
	Sources      []string        `json:"sources,omitempty"`
	SourceCursor int             `json:"source_cursor"`
}

// Encode serialises the session, history included.
func (s *Session) Encode() ([]byte, error) {
	r := record{
		ID:           s.ID,
		Name:         s.Name,
		Kind:         s.Kind,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Graph:        s.graph,
		History:      s.graphs.Entries(),
		Cursor:       s.graphs.Cursor(),
		Source:       s.source,
		Sources:      s.sources.Entries(),
		SourceCursor: s.sources.Cursor(),
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

// Decode restores a session written by [Session.Encode].
//
// The live graph must pass [diagram.Check]; a session that does not is
// rejected with an INTEGRITY error rather than loaded half-broken.
// Snapshots beyond the configured history limit are dropped, oldest first.
func Decode(data []byte, registry diagram.Registry, opts Options) (*Session, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidJSON, err, "parse session")
	}
	if err := errors.ValidateDiagramName(r.Name); err != nil {
		return nil, err
	}
	spec, err := registry.Lookup(r.Kind)
	if err != nil {
		return nil, err
	}
	if err := diagram.Check(r.Graph); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIntegrity, err, "session %q holds an inconsistent diagram", r.Name)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		ID:        r.ID,
		Name:      r.Name,
		Kind:      spec.Kind,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		spec:      spec,
		opts:      opts,
		graph:     r.Graph,
		source:    r.Source,
		graphs:    history.Restore(r.History, r.Cursor, opts.HistoryLimit),
		sources:   history.Restore(r.Sources, r.SourceCursor, opts.HistoryLimit),
		clipboard: &clipboard.Clipboard{},
	}
	// A session saved before anything was recorded still gets a baseline.
	if spec.TextBased && s.sources.Len() == 0 {
		s.sources.Record(s.source)
	}
	if !spec.TextBased && s.graphs.Len() == 0 {
		s.graphs.Record(s.graph.Clone())
	}
	return s, nil
}
