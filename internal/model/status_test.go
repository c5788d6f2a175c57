package model

import "testing"

func TestTaskStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusStarting, true},
		{TaskStatusDownloading, true},
		{TaskStatusProcessing, true},
		{TaskStatusStopping, true},
		{TaskStatusStopped, false},
		{TaskStatusCompleted, false},
		{TaskStatusError, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusStarting, false},
		{TaskStatusDownloading, false},
		{TaskStatusProcessing, false},
		{TaskStatusStopping, false},
		{TaskStatusStopped, true},
		{TaskStatusCompleted, true},
		{TaskStatusError, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestStatusForStage(t *testing.T) {
	tests := []struct {
		stage    Stage
		expected TaskStatus
	}{
		{StageInfo, TaskStatusStarting},
		{StageDownloadingVideo, TaskStatusDownloading},
		{StageDownloadingAudio, TaskStatusDownloading},
		{StageMerging, TaskStatusProcessing},
		{StageCutting, TaskStatusProcessing},
		{StageConverting, TaskStatusProcessing},
		{StageTranscribing, TaskStatusProcessing},
		{StageCompleted, TaskStatusCompleted},
	}

	for _, test := range tests {
		if got := StatusForStage(test.stage); got != test.expected {
			t.Errorf("StatusForStage(%s) = %s, expected %s", test.stage, got, test.expected)
		}
	}
}
