package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCacheUsage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b"), []byte("1234567890"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, size := cacheUsage(dir)
	if entries != 2 {
		t.Errorf("entries = %d, want 2", entries)
	}
	if size != 15 {
		t.Errorf("size = %d, want 15", size)
	}
}

func TestCacheUsageMissingDir(t *testing.T) {
	entries, size := cacheUsage(filepath.Join(t.TempDir(), "nope"))
	if entries != 0 || size != 0 {
		t.Errorf("missing dir usage = (%d, %d), want (0, 0)", entries, size)
	}
}

func TestCacheClearCommand(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", root)

	dir := filepath.Join(root, appName)
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "entry1"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "entry2"), []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	cmd := c.RootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"cache", "clear"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache clear: %v", err)
	}

	entries, _ := cacheUsage(dir)
	if entries != 0 {
		t.Errorf("cache still holds %d entries after clear", entries)
	}
}

func TestCacheInfoCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	cmd := c.RootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"cache", "info"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache info: %v", err)
	}
}
