// Package textutil provides text normalization and filename helpers shared
// across the matcher and the mux executor.
//
// NormalizeName produces the canonical form used for filename-similarity
// matching; the sanitize helpers keep generated output names filesystem-safe;
// the CRC helpers implement the "Title [A1B2C3D4].mkv" rename convention.
package textutil
