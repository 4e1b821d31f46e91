// Package language maps between ISO 639 codes, full language names, and
// display names. Matroska track metadata uses ISO 639-2 three-letter codes
// with "und" for undetermined, so the three-letter form is the canonical
// representation throughout the engine.
package language
