package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Import hooks
	i := NoopImportHooks{}
	i.OnImportStart(ctx, "json", 1024)
	i.OnImportComplete(ctx, "json", 12, time.Second, nil)
	i.OnImportApplied(ctx, "merge", 12)

	// Edit hooks
	NoopEditHooks{}.OnOperation(ctx, "group", 3, time.Millisecond, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "document")
	c.OnCacheMiss(ctx, "clipboard")
	c.OnCacheSet(ctx, "document", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/documents/validate")
	h.OnResponse(ctx, "POST", "/v1/documents/validate", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Import().(NoopImportHooks); !ok {
		t.Error("Import() should return NoopImportHooks by default")
	}
	if _, ok := Edit().(NoopEditHooks); !ok {
		t.Error("Edit() should return NoopEditHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customImport := &testImportHooks{}
	SetImportHooks(customImport)
	if Import() != customImport {
		t.Error("SetImportHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Import().(NoopImportHooks); !ok {
		t.Error("Reset() should restore NoopImportHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testImportHooks{}
	SetImportHooks(custom)

	// Setting nil should be ignored
	SetImportHooks(nil)

	if Import() != custom {
		t.Error("SetImportHooks(nil) should be ignored")
	}

	Reset()
}

func TestLogHooks(t *testing.T) {
	defer Reset()
	ctx := context.Background()

	var buf bytes.Buffer
	hooks := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	hooks.Register()

	Import().OnImportComplete(ctx, "yaml", 4, time.Millisecond, nil)
	Edit().OnOperation(ctx, "align", 2, time.Millisecond, errors.New("boom"))
	HTTP().OnResponse(ctx, "GET", "/v1/diagrams", 503, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"import parsed", "format=yaml", "operation failed", "err=boom", "status=503"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	hooks := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	hooks.OnCacheHit(context.Background(), "document")
	hooks.OnImportStart(context.Background(), "json", 10)
	if buf.Len() != 0 {
		t.Errorf("debug events logged at info level: %q", buf.String())
	}
}

// Test implementations
type testImportHooks struct{ NoopImportHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
