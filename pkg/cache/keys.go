package cache

import "strings"

// Keyer builds cache keys.
type Keyer interface {
	// ClipboardKey is where the clipboard of a workspace is stored.
	ClipboardKey(workspace string) string
	// DocumentKey is where a parsed import document is stored.
	DocumentKey(contentHash string, opts DocumentKeyOpts) string
}

// DocumentKeyOpts are the parse settings that change the parse result.
type DocumentKeyOpts struct {
	Format string `json:"format"`
	Kind   string `json:"kind,omitempty"`
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ClipboardKey returns "clipboard:<workspace>". An empty workspace maps to
// "default".
func (DefaultKeyer) ClipboardKey(workspace string) string {
	if strings.TrimSpace(workspace) == "" {
		workspace = "default"
	}
	return "clipboard:" + workspace
}

// DocumentKey returns "document:<format>:<hash>", with the kind inserted
// before the hash when set. An empty format means json.
func (DefaultKeyer) DocumentKey(contentHash string, opts DocumentKeyOpts) string {
	format := opts.Format
	if format == "" {
		format = "json"
	}
	parts := []string{"document", format}
	if opts.Kind != "" {
		parts = append(parts, opts.Kind)
	}
	return strings.Join(append(parts, contentHash), ":")
}

// ScopedKeyer wraps a Keyer with a prefix, so that independent sessions can
// share one backend without seeing each other's entries:
//
//	alice := NewScopedKeyer(NewDefaultKeyer(), "session:alice:")
//	bob := NewScopedKeyer(NewDefaultKeyer(), "session:bob:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ClipboardKey generates a prefixed clipboard key.
func (k *ScopedKeyer) ClipboardKey(workspace string) string {
	return k.prefix + k.inner.ClipboardKey(workspace)
}

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(contentHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(contentHash, opts)
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = (*ScopedKeyer)(nil)
)
