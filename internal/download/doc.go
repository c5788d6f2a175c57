// Package download implements the task queue in front of the download
// pipeline. It manages the task lifecycle, the parallelism limit, stop
// requests, progress propagation to the UI and history recording.
package download
