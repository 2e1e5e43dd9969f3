package layout

import (
	"errors"
	"testing"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// stubAlgorithm is a minimal Algorithm whose CanHandle is driven by its
// declared size limits.
type stubAlgorithm struct {
	name string
	caps Capabilities
}

func (s *stubAlgorithm) Name() string { return s.name }

func (s *stubAlgorithm) Apply(g *graph.Graph, cfg Config) (Positions, error) {
	return FromGraph(g), nil
}

func (s *stubAlgorithm) CanHandle(g *graph.Graph) bool { return s.caps.Fits(g) }
func (s *stubAlgorithm) Capabilities() Capabilities    { return s.caps }

func init() {
	Register(&stubAlgorithm{name: "force", caps: Capabilities{MaxNodes: 3}})
	Register(&stubAlgorithm{name: "tiny", caps: Capabilities{MaxNodes: 2}})
}

func nodeGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g := graph.New(nil)
	for i := 0; i < n; i++ {
		if err := g.AddNode(graph.Node{ID: string(rune('a' + i))}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	return g
}

func TestGet(t *testing.T) {
	if _, ok := Get("force"); !ok {
		t.Error("Get(force) not found")
	}
	if _, ok := Get("missing"); ok {
		t.Error("Get(missing) found unexpectedly")
	}
}

func TestAlgorithmsOrder(t *testing.T) {
	got := Algorithms()
	// Chain members first, extras sorted after.
	want := []string{"force", "tiny"}
	if len(got) != len(want) {
		t.Fatalf("Algorithms = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Algorithms[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSelectWalksChain(t *testing.T) {
	small := nodeGraph(t, 2)
	big := nodeGraph(t, 5)

	alg, err := Select(small, "")
	if err != nil {
		t.Fatalf("Select(small): %v", err)
	}
	if alg.Name() != "force" {
		t.Errorf("Select(small) = %q, want force", alg.Name())
	}

	if _, err := Select(big, ""); !errors.Is(err, ErrNoAlgorithm) {
		t.Errorf("Select(big) err = %v, want ErrNoAlgorithm", err)
	}
}

func TestSelectHonorsPreference(t *testing.T) {
	small := nodeGraph(t, 2)

	alg, err := Select(small, "tiny")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if alg.Name() != "tiny" {
		t.Errorf("Select = %q, want tiny", alg.Name())
	}

	// A preference that rejects the graph falls back to the chain.
	three := nodeGraph(t, 3)
	alg, err = Select(three, "tiny")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if alg.Name() != "force" {
		t.Errorf("Select = %q, want force fallback", alg.Name())
	}

	// Unknown preferences fall back too.
	alg, err = Select(small, "missing")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if alg.Name() != "force" {
		t.Errorf("Select = %q, want force fallback", alg.Name())
	}
}

func TestCapabilitiesFits(t *testing.T) {
	g := nodeGraph(t, 3)

	tests := []struct {
		name string
		caps Capabilities
		want bool
	}{
		{"unlimited", Capabilities{}, true},
		{"node limit ok", Capabilities{MaxNodes: 3}, true},
		{"node limit exceeded", Capabilities{MaxNodes: 2}, false},
		{"edge limit ok", Capabilities{MaxEdges: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.caps.Fits(g); got != tt.want {
				t.Errorf("Fits = %v, want %v", got, tt.want)
			}
		})
	}
}
