package force

// rng is a xorshift64* generator. Layout runs are seeded from
// Config.Seed, so identical inputs reproduce identical layouts on any
// platform.
type rng struct {
	state uint64
}

func newRNG(seed uint64) *rng {
	if seed == 0 {
		seed = 1
	}
	return &rng{state: seed}
}

func (r *rng) next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x * 0x2545f4914f6cdd1d
}

// float64 returns a uniform value in [0, 1).
func (r *rng) float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// symmetric returns a uniform value in [-1, 1).
func (r *rng) symmetric() float64 {
	return 2*r.float64() - 1
}
