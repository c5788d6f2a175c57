package model

// Stage is a step of a download pipeline.
type Stage string

const (
	StageInfo             Stage = "info"
	StageDownloadingVideo Stage = "downloading_video"
	StageDownloadingAudio Stage = "downloading_audio"
	StageMerging          Stage = "merging"
	StageCutting          Stage = "cutting"
	StageConverting       Stage = "converting"
	StageExtractingAudio  Stage = "extracting_audio"
	StageTranscribing     Stage = "transcribing"
	StageCompleted        Stage = "completed"
)

// EventKind mirrors the NDJSON status values of the HTTP API.
type EventKind string

const (
	EventInfo      EventKind = "info"
	EventProgress  EventKind = "progress"
	EventError     EventKind = "error"
	EventCompleted EventKind = "completed"
)

// Event is emitted by pipelines while they run.
type Event struct {
	Kind    EventKind
	Stage   Stage
	Message string
	Percent float64 // 0-100, progress events only
	ETASec  int     // -1 if unknown
	Speed   string
	Title   string // set once metadata is known
	File    string
}
