// Package pipeline runs the per-format download sequences: fetch streams,
// merge, trim or convert with ffmpeg, then the optional audio extraction
// and transcription extras. Every temporary file is owned by a
// platform.TempSet and removed when Run returns.
package pipeline
