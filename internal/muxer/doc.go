// Package muxer turns job requests into mkvmerge invocations and runs them
// through a pausable worker pool. Jobs that only change track metadata on
// the source file can take the mkvpropedit fast path instead of a full
// remux. A preview mode renders the exact command line and collects
// warnings without executing anything.
package muxer
