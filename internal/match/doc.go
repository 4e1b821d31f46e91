// Package match pairs external files with video files by normalized name
// containment, falling back to positional pairing for bulk-scanned files
// that have no name overlap with any video.
package match
