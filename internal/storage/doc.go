// Package storage persists embeddings and document classifications in a
// local SQLite database.
//
// Two tables back it: embeddings, a content-hash-keyed cache of vectors
// per provider/model, and documents, a memo of per-document type
// classifications. Vectors are stored as little-endian float32 blobs.
// Schema changes go through semver-ordered migrations.
//
// The package builds with either SQLite driver: modernc.org/sqlite by
// default (pure Go, CGO-free), or mattn/go-sqlite3 under the cgo_sqlite
// build tag.
//
// CachingEmbedder decorates an embedding provider with this store so
// repeated analysis of the same text across runs never re-embeds it.
package storage
