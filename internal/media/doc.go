// Package media builds ffmpeg command lines and runs ffmpeg and ffprobe
// with progress reporting.
package media
