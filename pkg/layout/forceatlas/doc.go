// Package forceatlas implements the ForceAtlas2 layout algorithm
// (Jacomy et al. 2014) on top of the shared force simulator.
//
// It differs from the generic force algorithm in three ways: repulsion
// is boosted for hub nodes above a degree threshold, attraction is
// proportional to distance (or log-scaled in LinLog mode) with no rest
// length, and the global simulation speed adapts each iteration from
// the ratio of total traction to total swinging. The combination keeps
// dense neighborhoods readable and converges without a cooling
// schedule.
package forceatlas
