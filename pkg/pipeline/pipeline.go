// Package pipeline drives a document import from raw bytes to a new graph.
//
// Importing is more than parsing: when the canvas already holds a diagram,
// the user decides whether the imported document replaces it, is merged
// into it, or is discarded. An [Import] tracks that conversation as an
// explicit state machine so that the CLI, the HTTP API and tests all follow
// the same transitions:
//
//	Idle ──Read──▶ FileRead ──▶ Validated ──▶ AwaitingChoice ──Choose──▶ Applied
//	                    │            │                         └──────▶ Cancelled
//	                    ▼            └──(canvas empty)──────────────────▶ Applied
//	                 Invalid
//
// When the existing graph is empty there is nothing to merge with, so a
// validated document is applied as a replacement without asking.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	imp := runner.Begin(current)
//	if err := runner.ReadFile(ctx, imp, "export.json"); err != nil {
//	    return err
//	}
//	if imp.State() == pipeline.StateAwaitingChoice {
//	    if err := imp.Choose(pipeline.ChoiceMerge); err != nil {
//	        return err
//	    }
//	}
//	next := imp.Graph()
//
// The [Runner] caches parsed documents by content hash, so reading the
// same bytes twice skips decoding and validation.
package pipeline

import (
	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
	canvasio "github.com/matzehuels/canvaskit/pkg/io"
)

// =============================================================================
// States and Choices
// =============================================================================

// State is a step of an import.
type State int

const (
	StateIdle State = iota
	StateFileRead
	StateValidated
	StateInvalid
	StateAwaitingChoice
	StateApplied
	StateCancelled
)

var stateNames = [...]string{
	StateIdle:           "idle",
	StateFileRead:       "file-read",
	StateValidated:      "validated",
	StateInvalid:        "invalid",
	StateAwaitingChoice: "awaiting-choice",
	StateApplied:        "applied",
	StateCancelled:      "cancelled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateInvalid || s == StateApplied || s == StateCancelled
}

// Choice is the user's decision on a validated document.
type Choice string

const (
	ChoiceReplace Choice = "replace"
	ChoiceMerge   Choice = "merge"
	ChoiceCancel  Choice = "cancel"
)

// Choices lists the choices in the order they are offered.
var Choices = []Choice{ChoiceReplace, ChoiceMerge, ChoiceCancel}

// ParseChoice converts a name to a Choice.
func ParseChoice(s string) (Choice, error) {
	for _, c := range Choices {
		if string(c) == s {
			return c, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown import choice %q (must be replace, merge or cancel)", s)
}

// =============================================================================
// Import
// =============================================================================

// Import is one import attempt. Create it with [Runner.Begin].
// An Import is not safe for concurrent use.
type Import struct {
	state    State
	existing diagram.Graph
	offset   diagram.Point

	format  canvasio.Format
	size    int
	cached  bool
	result  canvasio.Result
	err     error
	choice  Choice
	graph   diagram.Graph
	renamed map[string]string

	onApplied func(Choice, int)
}

// State returns the current state.
func (imp *Import) State() State { return imp.state }

// Format returns the format the document was read as.
func (imp *Import) Format() canvasio.Format { return imp.format }

// Cached reports whether the parse result came from the cache.
func (imp *Import) Cached() bool { return imp.cached }

// Result returns the parsed document. It is the zero Result before the
// document has been validated and after validation failed.
func (imp *Import) Result() canvasio.Result { return imp.result }

// Err returns why the import is Invalid, or nil.
func (imp *Import) Err() error { return imp.err }

// Choice returns the applied choice, or "" before one was made.
func (imp *Import) Choice() Choice { return imp.choice }

// Graph returns the graph the canvas should show once the import is
// Applied or Cancelled. In every other state it is the existing graph.
func (imp *Import) Graph() diagram.Graph {
	if imp.state == StateApplied {
		return imp.graph
	}
	return imp.existing
}

// Renamed maps imported identifiers renamed by a merge to their new
// identifiers. It is empty for every other outcome.
func (imp *Import) Renamed() map[string]string { return imp.renamed }

// Choose resolves an import that is awaiting a choice.
//
// Replace discards the existing graph. Merge appends the imported graph
// with [canvasio.Merge]. Cancel keeps the existing graph. Calling Choose in
// any other state returns an INVALID_STATE error and changes nothing.
func (imp *Import) Choose(c Choice) error {
	if imp.state != StateAwaitingChoice {
		return errors.New(errors.ErrCodeInvalidState, "cannot choose %q: import is %s", c, imp.state)
	}
	switch c {
	case ChoiceReplace:
		imp.apply(c, imp.result.Graph.Clone(), nil)
	case ChoiceMerge:
		m := canvasio.Merge(imp.existing, imp.result.Graph, imp.offset)
		imp.apply(c, m.Graph, m.Renamed)
	case ChoiceCancel:
		imp.choice = c
		imp.state = StateCancelled
		imp.notify(c)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown import choice %q", c)
	}
	return nil
}

func (imp *Import) apply(c Choice, g diagram.Graph, renamed map[string]string) {
	imp.choice = c
	imp.graph = g
	imp.renamed = renamed
	imp.state = StateApplied
	imp.notify(c)
}

func (imp *Import) notify(c Choice) {
	if imp.onApplied != nil {
		imp.onApplied(c, len(imp.Graph().Nodes))
	}
}

// fail moves the import to Invalid.
func (imp *Import) fail(err error) {
	imp.err = err
	imp.state = StateInvalid
}

// validated records a parse result and advances past Validated: straight
// to Applied when there is nothing to merge with, otherwise to
// AwaitingChoice.
func (imp *Import) validated(res canvasio.Result) {
	imp.result = res
	imp.state = StateValidated
	if len(imp.existing.Nodes) == 0 {
		imp.apply(ChoiceReplace, res.Graph.Clone(), nil)
		return
	}
	imp.state = StateAwaitingChoice
}
