package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/canvaskit/pkg/errors"
)

// exercise runs the behaviour every backend shares.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "checkout"); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Fatalf("Get(missing) error = %v, want DIAGRAM_NOT_FOUND", err)
	}

	doc := []byte(`{"version":"1.0","nodes":[],"edges":[]}`)
	if err := s.Put(ctx, "checkout", doc); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := s.Put(ctx, "billing", []byte(`{}`)); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := s.Get(ctx, "checkout")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(got) != string(doc) {
		t.Errorf("Get = %q, want %q", got, doc)
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "billing" || infos[1].Name != "checkout" {
		t.Fatalf("List = %+v, want billing, checkout", infos)
	}
	if infos[1].Size != len(doc) {
		t.Errorf("Size = %d, want %d", infos[1].Size, len(doc))
	}

	if err := s.Put(ctx, "checkout", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	if got, _ := s.Get(ctx, "checkout"); string(got) != `{"v":2}` {
		t.Errorf("Get after overwrite = %q", got)
	}

	if err := s.Delete(ctx, "checkout"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := s.Delete(ctx, "checkout"); !errors.Is(err, errors.ErrCodeDiagramNotFound) {
		t.Errorf("second Delete error = %v, want DIAGRAM_NOT_FOUND", err)
	}

	for _, bad := range []string{"", "../etc", "a/b"} {
		if err := s.Put(ctx, bad, doc); !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("Put(%q) error = %v, want INVALID_NAME", bad, err)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exercise(t, s)
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	data := []byte("abc")
	if err := s.Put(ctx, "x", data); err != nil {
		t.Fatal(err)
	}
	data[0] = 'z'
	got, _ := s.Get(ctx, "x")
	got[1] = 'z'
	if again, _ := s.Get(ctx, "x"); string(again) != "abc" {
		t.Errorf("stored data changed to %q", again)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestFileStoreSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(context.Background(), "a", []byte("{}")); err != nil {
		t.Fatal(err)
	}

	infos, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Name != "a" {
		t.Errorf("List = %+v, want only a", infos)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}
