package ui

import "time"

// Icons
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconStop     = "■"
	IconClose    = "×"
	IconError    = "❌"
	IconDone     = "✔"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing
const (
	WindowWidth  float32 = 720
	WindowHeight float32 = 560

	SettingsDialogWidth  float32 = 480
	SettingsDialogHeight float32 = 460

	TimeEntryWidth float32 = 110
)

// PlaylistParseTimeout bounds playlist expansion from the form.
const PlaylistParseTimeout = 2 * time.Minute
