package diagram

import (
	"slices"

	"github.com/matzehuels/canvaskit/pkg/errors"
)

// Kind names a diagram type.
type Kind string

const (
	KindArchitecture Kind = "architecture"
	KindMindMap      Kind = "mindmap"
	KindFlowchart    Kind = "flowchart"
	KindSequence     Kind = "sequence"
)

// KindSpec describes what a diagram kind supports.
type KindSpec struct {
	Kind Kind
	// TextBased kinds are edited as source text; their history holds
	// text snapshots rather than graph snapshots.
	TextBased bool
	// Groups reports whether nested grouping is available.
	Groups bool
}

// builtinKinds lists every kind canvaskit knows how to handle.
var builtinKinds = []KindSpec{
	{Kind: KindArchitecture, Groups: true},
	{Kind: KindMindMap},
	{Kind: KindFlowchart, Groups: true},
	{Kind: KindSequence, TextBased: true},
}

// Registry maps the enabled kinds to their specs. It is built once at
// startup and handed to the components that need it.
type Registry map[Kind]KindSpec

// NewRegistry builds a registry with the named kinds enabled.
// With no arguments every built-in kind is enabled.
func NewRegistry(kinds ...Kind) (Registry, error) {
	r := make(Registry, len(builtinKinds))
	for _, spec := range builtinKinds {
		if len(kinds) == 0 || slices.Contains(kinds, spec.Kind) {
			r[spec.Kind] = spec
		}
	}
	for _, k := range kinds {
		if _, ok := r[k]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidKind, "unknown diagram kind %q", k)
		}
	}
	return r, nil
}

// Lookup returns the spec for k.
func (r Registry) Lookup(k Kind) (KindSpec, error) {
	if k == "" {
		k = KindArchitecture
	}
	spec, ok := r[k]
	if !ok {
		return KindSpec{}, errors.New(errors.ErrCodeInvalidKind, "diagram kind %q is not enabled", k)
	}
	return spec, nil
}

// Kinds returns the enabled kinds in sorted order.
func (r Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
