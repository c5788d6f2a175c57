// Package history keeps a SQLite log of finished downloads.
package history
