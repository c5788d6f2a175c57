// Package server exposes the download pipeline over HTTP: a filename
// prediction endpoint, a streaming NDJSON download endpoint and a file
// endpoint for finished artifacts.
package server
