// Package mocks provides function-field fakes of the service interfaces for
// handler tests that need failures a real database cannot easily produce.
//
// Each mock calls its XxxFn field when set and otherwise returns the
// default values and DefaultError.
package mocks
