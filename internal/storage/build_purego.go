//go:build !cgo_sqlite
// +build !cgo_sqlite

package storage

// Compiled when building without CGO. Uses a pure Go SQLite
// implementation, so no C compiler is required and cross-compilation
// works out of the box.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
