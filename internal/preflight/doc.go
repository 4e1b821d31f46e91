// Package preflight provides readiness checks for the external tools and
// directories a mux run depends on.
//
// The mux command runs RunAll before submitting jobs so a missing binary or
// an unwritable destination surfaces up front instead of failing every job
// halfway through. The status command uses the individual check functions
// to display tool health.
package preflight
