package favorites

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	if _, ok, err := m.Load(ctx, "k"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	data := []byte(`[]`)
	if err := m.Save(ctx, "k", data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data[0] = 'x'

	got, ok, err := m.Load(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected key, got ok=%v err=%v", ok, err)
	}
	if string(got) != "[]" {
		t.Errorf("stored data should be copied, got %s", got)
	}
}

func TestFileStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested")
		f := NewFileStorage(dir)

		if _, ok, err := f.Load(ctx, DefaultKey); ok || err != nil {
			t.Fatalf("expected missing file, got ok=%v err=%v", ok, err)
		}

		if err := f.Save(ctx, DefaultKey, []byte(`[{"id":"m1"}]`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, ok, err := f.Load(ctx, DefaultKey)
		if err != nil || !ok {
			t.Fatalf("expected file, got ok=%v err=%v", ok, err)
		}
		if string(got) != `[{"id":"m1"}]` {
			t.Errorf("unexpected contents %s", got)
		}
	})

	t.Run("key is sanitized into a single file name", func(t *testing.T) {
		dir := t.TempDir()
		f := NewFileStorage(dir)
		path := f.Path("favorites:user/../x")
		if filepath.Dir(path) != dir {
			t.Errorf("expected file inside %s, got %s", dir, path)
		}
	})

	t.Run("distinct keys use distinct files", func(t *testing.T) {
		f := NewFileStorage(t.TempDir())
		ctx := context.Background()

		if f.Path("favorites:a") == f.Path("favorites_a") {
			t.Fatalf("keys collide on %s", f.Path("favorites:a"))
		}

		if err := f.Save(ctx, "favorites:a", []byte(`["owner"]`)); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := f.Save(ctx, "favorites_a", []byte(`["other"]`)); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		data, ok, err := f.Load(ctx, "favorites:a")
		if err != nil || !ok {
			t.Fatalf("load failed: ok=%v err=%v", ok, err)
		}
		if string(data) != `["owner"]` {
			t.Errorf("expected owner document, got %s", data)
		}
	})

	t.Run("no temp files left behind", func(t *testing.T) {
		dir := t.TempDir()
		f := NewFileStorage(dir)
		if err := f.Save(ctx, "k", []byte("[]")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the data file, got %d entries", len(entries))
		}
	})

	t.Run("store reload through files", func(t *testing.T) {
		f := NewFileStorage(t.TempDir())
		s := newTestStore(t, f)
		if _, err := s.Add(ctx, favorite("m1")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !newTestStore(t, f).Contains("m1") {
			t.Error("expected favorite to survive reload from disk")
		}
	})
}
