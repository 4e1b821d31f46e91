// Package mediakit defines the media data model shared by every engine
// component: video files with their internal track lists, external files
// (audio, subtitle, chapter, attachment) destined for injection, and the
// per-video job request handed to the mux executor.
//
// Default/forced track flags are tri-state (*bool): nil means the source
// container never declared the flag, which the diff engine must keep
// distinguishable from an explicit false.
package mediakit
