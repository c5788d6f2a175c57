// Package ui contains the Fyne-based desktop user interface. It wires the
// download form to the download service, renders the task list and keeps
// the status line in sync with the number of active downloads. All UI
// strings are localized via Localization.
package ui
