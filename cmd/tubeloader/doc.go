// Command tubeloader downloads YouTube media, transcribes files and serves
// the HTTP API from the terminal.
package main
