package cache

// Keyer derives cache keys. Routing every cached artifact through one keyer
// keeps the key layout in a single place and lets multi-tenant deployments
// swap in a scoped variant without touching call sites.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body by namespace and request URL.
	HTTPKey(namespace, key string) string

	// AnalysisKey keys an analyzer result by the content hash of the graph
	// it was computed from plus the options that shaped it.
	AnalysisKey(graphHash string, opts AnalysisKeyOpts) string
}

// AnalysisKeyOpts mirrors the analyzer options that change its output. Two
// analyses with equal graph hashes and equal opts are interchangeable.
type AnalysisKeyOpts struct {
	DependencyKinds   []string `json:"dependency_kinds,omitempty"`
	BottleneckFactor  float64  `json:"bottleneck_factor,omitempty"`
	BottleneckCeiling float64  `json:"bottleneck_ceiling,omitempty"`
	DensityDepth      int      `json:"density_depth,omitempty"`
	DensityEdgeBonus  float64  `json:"density_edge_bonus,omitempty"`
	Center            string   `json:"center,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>". The raw URL stays readable in
// the key; FileCache hashes keys before they touch the filesystem.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// AnalysisKey returns "analysis:<sha256>" where the hash covers both the
// graph hash and the options document.
func (k *DefaultKeyer) AnalysisKey(graphHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", graphHash, opts)
}
