package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
	canvasio "github.com/matzehuels/canvaskit/pkg/io"
	"github.com/matzehuels/canvaskit/pkg/observability"
)

// TTLDocument is how long a parsed document stays cached.
const TTLDocument = 24 * time.Hour

// Runner reads import documents with caching.
// Both CLI and API use it so that they validate identically.
//
// The Runner is stateless except for the cache and logger; it does not
// store imports. Multiple goroutines can safely use the same Runner with
// different imports.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// MergeOffset shifts imported roots on merge.
	MergeOffset diagram.Point
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		MergeOffset: canvasio.DefaultMergeOffset,
	}
}

// Begin starts an import onto existing. The graph is cloned; later changes
// to the caller's copy do not affect the import.
func (r *Runner) Begin(existing diagram.Graph) *Import {
	return &Import{
		state:    StateIdle,
		existing: existing.Clone(),
		offset:   r.MergeOffset,
		onApplied: func(c Choice, n int) {
			observability.Import().OnImportApplied(context.Background(), string(c), n)
		},
	}
}

// Read runs the Idle → FileRead → Validated|Invalid steps of imp on the
// document in src.
//
// A validation or decoding failure moves imp to Invalid and is also
// returned. If ctx is cancelled before the document has been read, imp
// stays Idle and ctx.Err() is returned.
func (r *Runner) Read(ctx context.Context, imp *Import, src io.Reader, format canvasio.Format) error {
	if imp.state != StateIdle {
		return errors.New(errors.ErrCodeInvalidState, "cannot read: import is %s", imp.state)
	}
	data, err := readAll(ctx, src)
	if err != nil {
		return err
	}
	imp.format = format
	imp.size = len(data)
	imp.state = StateFileRead

	res, hit, err := r.ParseWithCacheInfo(ctx, data, format)
	imp.cached = hit
	if err != nil {
		imp.fail(err)
		return err
	}
	imp.validated(res)
	r.Logger.Debug("import read", "state", imp.state, "nodes", len(res.Graph.Nodes), "cached", hit)
	return nil
}

// ReadFile is [Runner.Read] on a file, with the format taken from its
// extension. A missing file leaves imp Idle.
func (r *Runner) ReadFile(ctx context.Context, imp *Import, path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "file %s not found", path)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(ctx, imp, f, canvasio.FormatFromPath(path))
}

// ParseWithCacheInfo decodes, validates and parses data, consulting the
// cache first, and reports whether the result was a cache hit.
//
// The cache holds the validated document re-encoded as JSON, so a hit
// only has to run [canvasio.Parse]. Cache failures are logged and
// otherwise ignored.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, data []byte, format canvasio.Format) (canvasio.Result, bool, error) {
	hooks := observability.Import()
	start := time.Now()
	hooks.OnImportStart(ctx, string(format), len(data))

	key := r.Keyer.DocumentKey(cache.Hash(data), cache.DocumentKeyOpts{Format: string(format)})

	if doc, ok := r.cached(ctx, key); ok {
		res := canvasio.Parse(doc)
		r.warn(res)
		hooks.OnImportComplete(ctx, string(format), len(res.Graph.Nodes), time.Since(start), nil)
		return res, true, nil
	}

	doc, err := canvasio.DecodeDocument(data, format)
	if err != nil {
		hooks.OnImportComplete(ctx, string(format), 0, time.Since(start), err)
		return canvasio.Result{}, false, err
	}

	if encoded, err := json.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, key, encoded, TTLDocument); err != nil {
			r.Logger.Debug("cache document", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "document", len(encoded))
		}
	}

	res := canvasio.Parse(doc)
	r.warn(res)
	hooks.OnImportComplete(ctx, string(format), len(res.Graph.Nodes), time.Since(start), nil)
	return res, false, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, data []byte, format canvasio.Format) (canvasio.Result, error) {
	res, _, err := r.ParseWithCacheInfo(ctx, data, format)
	return res, err
}

func (r *Runner) cached(ctx context.Context, key string) (canvasio.Document, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache lookup", "err", err)
		return canvasio.Document{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "document")
		return canvasio.Document{}, false
	}
	var doc canvasio.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		// If deserialization fails, fall through to re-parse
		_ = r.Cache.Delete(ctx, key)
		return canvasio.Document{}, false
	}
	observability.Cache().OnCacheHit(ctx, "document")
	return doc, true
}

// warn logs what Parse tolerated in res. Cached and fresh parses log the
// same lines.
func (r *Runner) warn(res canvasio.Result) {
	if res.VersionMismatch() {
		r.Logger.Warn("document version differs, importing anyway", "version", res.Version, "expected", canvasio.Version)
	}
	if len(res.Dropped) > 0 {
		r.Logger.Warn("dropped edges with missing endpoints", "count", len(res.Dropped))
	}
}

// Chooser asks the user how to apply a validated document.
type Chooser func(ctx context.Context, imp *Import) (Choice, error)

// Always returns a Chooser that always picks c.
func Always(c Choice) Chooser {
	return func(context.Context, *Import) (Choice, error) { return c, nil }
}

// Run performs a whole import: it reads src onto existing and, if the
// document needs a decision, asks choose. The returned Import is in a
// terminal state unless an error is returned.
func (r *Runner) Run(ctx context.Context, existing diagram.Graph, src io.Reader, format canvasio.Format, choose Chooser) (*Import, error) {
	imp := r.Begin(existing)
	if err := r.Read(ctx, imp, src, format); err != nil {
		return imp, err
	}
	if imp.State() != StateAwaitingChoice {
		return imp, nil
	}
	c, err := choose(ctx, imp)
	if err != nil {
		return imp, err
	}
	if err := imp.Choose(c); err != nil {
		return imp, err
	}
	return imp, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// readAll reads src unless ctx is cancelled first.
func readAll(ctx context.Context, src io.Reader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	_, err := buf.ReadFrom(src)
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return buf.Bytes(), nil
}
