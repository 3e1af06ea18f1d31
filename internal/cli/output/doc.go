// Package output provides output formatting for kvs.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Table rendering with wide mode support
//   - json.go: JSON output formatting
//   - yaml.go: YAML formatter, which writes no output
//   - spinner.go: Progress animation for long operations
//
// Formatters support:
//
//   - Multiple output formats (table, json; yaml is accepted but
//     produces no output)
//   - Wide mode for additional columns
//   - Machine-readable output for scripting
package output
