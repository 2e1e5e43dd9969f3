package layout

import (
	"fmt"
	"sort"
	"sync"

	"github.com/matzehuels/forcefield/pkg/graph"
)

// FallbackChain is the order Select tries algorithms in when no
// preference is given or the preferred algorithm cannot handle the
// graph. Later entries accept progressively larger graphs; the last
// entry has no size limit.
var FallbackChain = []string{"forceatlas2", "force", "hierarchical", "radial", "grid"}

var (
	registryMu sync.RWMutex
	registry   = map[string]Algorithm{}
)

// Register makes an algorithm available to Get and Select. Algorithm
// subpackages call it from init; registering the same name twice
// panics.
func Register(a Algorithm) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name := a.Name()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("layout: Register called twice for %q", name))
	}
	registry[name] = a
}

// Get returns the algorithm registered under name.
func Get(name string) (Algorithm, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := registry[name]
	return a, ok
}

// Algorithms returns the names of all registered algorithms in
// fallback-chain order, followed by any extras.
func Algorithms() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	seen := make(map[string]bool, len(registry))
	for _, name := range FallbackChain {
		if _, ok := registry[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var extras []string
	for name := range registry {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(names, extras...)
}

// Select picks an algorithm for g. A non-empty preferred name is tried
// first; if it is unknown or rejects the graph, Select walks the
// fallback chain and returns the first algorithm whose CanHandle
// accepts g. ErrNoAlgorithm is returned when nothing fits.
func Select(g *graph.Graph, preferred string) (Algorithm, error) {
	if preferred != "" {
		if a, ok := Get(preferred); ok && a.CanHandle(g) {
			return a, nil
		}
	}
	for _, name := range FallbackChain {
		if name == preferred {
			continue
		}
		if a, ok := Get(name); ok && a.CanHandle(g) {
			return a, nil
		}
	}
	return nil, ErrNoAlgorithm
}
