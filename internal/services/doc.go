// Package services defines the shared error taxonomy used by collaborator
// clients (inspector, mux executor) and the classification of failures into
// job ledger statuses. Matching and aggregation problems are deliberately
// not errors: they surface as data-state (unmatched files, skipped writes).
package services
