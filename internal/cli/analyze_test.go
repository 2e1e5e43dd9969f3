package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/matzehuels/forcefield/pkg/analyze"
)

func TestRunAnalyzeJSON(t *testing.T) {
	dir := t.TempDir()
	input := writeGraphDoc(t, dir)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"analyze", "-i", input, "--json", "--no-cache"})

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	execErr := root.ExecuteContext(context.Background())
	w.Close()
	os.Stdout = old

	if execErr != nil {
		t.Fatalf("analyze command: %v", execErr)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read captured output: %v", err)
	}

	var result analyze.Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, data)
	}

	want := []string{"app", "auth", "db"}
	if len(result.CriticalPath) != len(want) {
		t.Fatalf("critical path = %v, want %v", result.CriticalPath, want)
	}
	for i := range want {
		if result.CriticalPath[i] != want[i] {
			t.Errorf("critical path[%d] = %q, want %q", i, result.CriticalPath[i], want[i])
		}
	}
}

func TestTopDensity(t *testing.T) {
	result := analyze.Result{
		Center:  "a",
		Density: map[string]float64{"a": 1, "b": 0.5, "c": 0.75, "d": 0.5},
	}

	got := topDensity(result, 2)
	want := "c 0.75 · b 0.50"
	if got != want {
		t.Errorf("topDensity = %q, want %q", got, want)
	}

	// Ties break by node ID.
	got = topDensity(result, 3)
	want = "c 0.75 · b 0.50 · d 0.50"
	if got != want {
		t.Errorf("topDensity = %q, want %q", got, want)
	}
}

func TestLevelSample(t *testing.T) {
	levels := map[string]int{"a": 0, "b": 1, "c": 1, "d": 1}

	tests := []struct {
		level int
		n     int
		want  string
	}{
		{0, 4, "a"},
		{1, 2, "b, c, ..."},
		{1, 3, "b, c, d"},
		{5, 4, ""},
	}
	for _, tt := range tests {
		if got := levelSample(levels, tt.level, tt.n); got != tt.want {
			t.Errorf("levelSample(level=%d, n=%d) = %q, want %q", tt.level, tt.n, got, tt.want)
		}
	}
}

func TestTruncateList(t *testing.T) {
	ids := []string{"a", "b", "c"}

	if got := truncateList(ids, 5); got != "a, b, c" {
		t.Errorf("truncateList(n=5) = %q, want %q", got, "a, b, c")
	}
	if got := truncateList(ids, 2); got != "a, b, ..." {
		t.Errorf("truncateList(n=2) = %q, want %q", got, "a, b, ...")
	}
}
