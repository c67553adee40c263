package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.History.Limit != 50 {
		t.Errorf("History.Limit = %d, want 50", cfg.History.Limit)
	}
	if got := cfg.MergeOffset(); got != (diagram.Point{X: 300, Y: 100}) {
		t.Errorf("MergeOffset() = %v", got)
	}
	opts := cfg.PasteOptions()
	if opts.Offset != (diagram.Point{X: 50, Y: 50}) || !opts.ClearParent {
		t.Errorf("PasteOptions() = %+v", opts)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load(missing) error: %v", err)
	}
	if cfg.Server.Addr != Default().Server.Addr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
kinds = ["architecture", "sequence"]

[history]
limit = 5

[clipboard]
offset_x = 10
keep_parent = true

[server]
addr = "127.0.0.1:9000"

[redis]
addr = "localhost:6379"
db = 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.History.Limit != 5 {
		t.Errorf("History.Limit = %d, want 5", cfg.History.Limit)
	}
	if cfg.Clipboard.OffsetX != 10 || cfg.Clipboard.OffsetY != 50 {
		t.Errorf("Clipboard = %+v, want offset_y kept at its default", cfg.Clipboard)
	}
	if cfg.PasteOptions().ClearParent {
		t.Error("keep_parent should keep copies in their group")
	}
	if cfg.Redis.Prefix != "canvaskit:" {
		t.Errorf("Redis.Prefix = %q, want default", cfg.Redis.Prefix)
	}
	if got := cfg.RedisConfig(); got.Addr != "localhost:6379" || got.DB != 2 {
		t.Errorf("RedisConfig() = %+v", got)
	}

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry error: %v", err)
	}
	if _, err := reg.Lookup(diagram.KindMindMap); !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("mindmap should be disabled, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"malformed", "[history\nlimit = 1", nil},
		{"unknown key", "[history]\nlimt = 5", nil},
		{"limit too small", "[history]\nlimit = 0", []string{"history.limit"}},
		{"bad kind", `kinds = ["architecture", "gantt"]`, []string{"kinds[1]"}},
		{"bad addr", "[server]\naddr = \"nowhere\"", []string{"server.addr"}},
		{"several problems", "[history]\nlimit = -1\n[redis]\ndb = 99\n[mongo]\nuri = \"http://x\"", []string{"history.limit", "redis.db", "mongo.uri"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("Load error = %v, want INVALID_CONFIG", err)
			}
			var got []string
			for _, fe := range errors.Fields(err) {
				got = append(got, fe.Field)
			}
			if len(got) != len(tt.fields) {
				t.Fatalf("fields = %v, want %v", got, tt.fields)
			}
			for i := range got {
				if got[i] != tt.fields[i] {
					t.Errorf("fields[%d] = %q, want %q", i, got[i], tt.fields[i])
				}
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", "canvaskit", FileName); path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Kinds = []string{"flowchart"}
	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	back, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("Load(encoded) error: %v\n%s", err, buf.String())
	}
	if back.Server.Addr != cfg.Server.Addr || len(back.Kinds) != 1 || back.Kinds[0] != "flowchart" {
		t.Errorf("round trip = %+v", back)
	}
}
