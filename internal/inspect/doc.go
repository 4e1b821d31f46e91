// Package inspect shells out to mkvmerge and mediainfo to build structured
// file and track metadata for videos and external files. mkvmerge
// identification is preferred for Matroska containers; mediainfo fills in
// what mkvmerge does not report (frame rate, VBR audio bitrates) and covers
// non-Matroska inputs on its own.
package inspect
