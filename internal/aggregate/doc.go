// Package aggregate builds cross-video consensus rows for one track
// kind/position, applies edited rows back into every contributing video,
// and recomputes track dispositions by diffing against each track's
// true-original snapshot.
//
// Aggregation is a pure projection and write-back is a pure function over
// video lists; neither touches shared state.
package aggregate
