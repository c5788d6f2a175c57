// Package platform contains OS integration and filesystem glue: output
// naming and collision handling, temporary file tracking, external tool
// discovery, playlist expansion and OS open/reveal helpers.
package platform
