// Package queue persists the per-job execution ledger in SQLite. Each mux
// run records its jobs here so status, progress, and warnings survive
// crashes and can be inspected after the fact. Job rows mirror the
// queued -> processing -> completed/error lifecycle, with stopped marking
// user-cancelled work.
package queue
