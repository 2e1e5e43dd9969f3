// Package force implements the multi-force physics simulator behind
// the force-directed layout algorithms.
//
// Each iteration runs a fixed pipeline over a private body array:
// zero forces, repulsion (Barnes-Hut or exact), edge attraction,
// centering gravity, collision, then a swinging-damped integration
// step. The simulator itself is generic; the Tuning struct selects the
// attraction model, repulsion scale, hub handling, and speed control
// that distinguish the registered algorithms.
//
// The package registers the "force" algorithm: spring attraction
// toward a rest length with a fixed global speed, the classic
// many-body layout. ForceAtlas2 builds on the same simulator from
// package forceatlas.
package force
