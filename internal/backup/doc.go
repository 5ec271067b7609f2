// Package backup reads and writes portable snapshots of all topics and cards.
//
// A snapshot is a versioned Document serialised as JSON or YAML. Cards and
// topics can also be brought in from spreadsheet-style CSV files, which
// decode into the same Document shape.
package backup
