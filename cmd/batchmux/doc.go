// Command batchmux is the batch MKV muxing CLI: scan media folders, pair
// external audio/subtitle/chapter files with their videos, inspect and edit
// track metadata in aggregate, and run the assembled mkvmerge jobs through
// a bounded worker pool.
package main
