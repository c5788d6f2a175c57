package model

// TaskStatus represents the status of a download task
type TaskStatus string

const (
	// TaskStatusPending means the task is queued but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusStarting means the task is resolving video info
	TaskStatusStarting TaskStatus = "Starting"

	// TaskStatusDownloading means a stream download is in progress
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusProcessing means ffmpeg or the transcriber is running
	TaskStatusProcessing TaskStatus = "Processing"

	// TaskStatusStopping means a stop was requested and the worker is unwinding
	TaskStatusStopping TaskStatus = "Stopping"

	// TaskStatusStopped means the task was stopped by user
	TaskStatusStopped TaskStatus = "Stopped"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if a worker currently owns the task
func (ts TaskStatus) IsActive() bool {
	switch ts {
	case TaskStatusStarting, TaskStatusDownloading, TaskStatusProcessing, TaskStatusStopping:
		return true
	}
	return false
}

// IsFinished returns true if the task is completed, stopped, or failed
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}

// StatusForStage maps a pipeline stage to the coarse task status shown in lists.
func StatusForStage(stage Stage) TaskStatus {
	switch stage {
	case StageInfo:
		return TaskStatusStarting
	case StageDownloadingVideo, StageDownloadingAudio:
		return TaskStatusDownloading
	case StageCompleted:
		return TaskStatusCompleted
	default:
		return TaskStatusProcessing
	}
}
