// Package logging constructs the application's slog loggers. The console
// format prints one line per record: RFC3339 timestamp, level, optional
// component prefix, message, then flattened key=value attributes. The JSON
// format is a thin wrapper over slog.NewJSONHandler with normalized keys.
package logging
