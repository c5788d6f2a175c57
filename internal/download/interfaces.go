package download

import (
	"context"

	"github.com/ytget/tubeloader/internal/history"
	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/pipeline"
)

// Processor runs one request to completion.
type Processor interface {
	Run(ctx context.Context, req model.Request, emit func(model.Event)) (*pipeline.Result, error)
}

// Recorder persists finished tasks.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))
	AddTask(req model.Request) (*model.DownloadTask, error)
	GetTask(id string) (*model.DownloadTask, bool)
	GetAllTasks() []*model.DownloadTask
	StopTask(id string) error
	RemoveTask(id string) error
	ActiveCount() int
	Wait(ctx context.Context) error

	// SetMaxParallelDownloads sets the maximum number of parallel downloads
	SetMaxParallelDownloads(max int)

	// SetRecorder enables history recording
	SetRecorder(r Recorder)
}
