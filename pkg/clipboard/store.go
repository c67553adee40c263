package clipboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/canvaskit/pkg/cache"
)

// DefaultTTL is how long a saved clipboard survives in a cache.
const DefaultTTL = 7 * 24 * time.Hour

// Save writes the clipboard content to c under key.
func (cb *Clipboard) Save(ctx context.Context, c cache.Cache, key string, ttl time.Duration) error {
	data, err := json.Marshal(cb.content)
	if err != nil {
		return fmt.Errorf("encode clipboard: %w", err)
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("save clipboard: %w", err)
	}
	return nil
}

// Load reads a clipboard saved under key. A missing entry yields an empty
// clipboard; an undecodable one is discarded and also yields an empty
// clipboard.
func Load(ctx context.Context, c cache.Cache, key string) (*Clipboard, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load clipboard: %w", err)
	}
	if !ok {
		return &Clipboard{}, nil
	}
	var sel Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		_ = c.Delete(ctx, key)
		return &Clipboard{}, nil
	}
	return &Clipboard{content: sel}, nil
}
