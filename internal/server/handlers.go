package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ytget/tubeloader/internal/history"
	"github.com/ytget/tubeloader/internal/model"
	"github.com/ytget/tubeloader/internal/pipeline"
	"github.com/ytget/tubeloader/internal/platform"
)

// ErrForbiddenPath is returned for serve-file names that leave the work dir.
var ErrForbiddenPath = errors.New("forbidden path")

const ndjsonContentType = "application/x-ndjson"

// MediaOptions selects the artifacts of a request.
type MediaOptions struct {
	Video         bool `json:"video"`
	Audio         bool `json:"audio"`
	Transcription bool `json:"transcription"`
}

type videoInfoRequest struct {
	URL     string       `json:"url"`
	Options MediaOptions `json:"options"`
}

type downloadRequest struct {
	URL       string       `json:"url"`
	Options   MediaOptions `json:"options"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
}

// StreamEvent is one NDJSON line of the download stream.
type StreamEvent struct {
	Status   model.EventKind `json:"status"`
	Detail   string          `json:"detail,omitempty"`
	Progress float64         `json:"progress"`
	ETA      int             `json:"eta"`
	Filename string          `json:"filename,omitempty"`
}

// Request maps the options to a pipeline request. Video wins over audio,
// which then becomes an extra MP3. Transcription alone downloads audio and
// keeps only the subtitles.
func (o MediaOptions) Request(url string, trim model.TimeRange, outDir string) model.Request {
	req := model.Request{
		URL:        url,
		Format:     model.FormatMP4,
		Trim:       trim,
		OutputDir:  outDir,
		Transcribe: o.Transcription,
	}
	switch {
	case o.Video:
		req.ExtractAudio = o.Audio
	case o.Audio:
		req.Format = model.FormatMP3
	case o.Transcription:
		req.Format = model.FormatMP3
		req.DiscardMedia = true
	}
	return req
}

// Extension is the predicted primary artifact extension.
func (o MediaOptions) Extension() string {
	if o.Audio && !o.Video {
		return model.FormatMP3.Extension()
	}
	return model.FormatMP4.Extension()
}

func (s *Server) handleVideoInfo(c *gin.Context) {
	var body videoInfoRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	url := model.CleanURL(body.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest, errorBody("URL is required"))
		return
	}

	info, err := s.info.Info(c.Request.Context(), url)
	if err != nil {
		s.logger.Warn("video info failed", "url", url, "err", err)
		c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":    info.DisplayTitle(),
		"filename": platform.SanitizeTitle(info.Title) + "." + body.Options.Extension(),
	})
}

func (s *Server) handleDownload(c *gin.Context) {
	var body downloadRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	url := model.CleanURL(body.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest, errorBody("URL is required"))
		return
	}

	id := uuid.NewString()
	dir := filepath.Join(s.workDir, id)
	req := body.Options.Request(url, model.TimeRange{Start: body.StartTime, End: body.EndTime}, dir)
	req.Normalize()
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
		return
	}

	c.Header("Content-Type", ndjsonContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)

	stream := newEventWriter(c)
	log := s.logger.With("request", id)
	started := time.Now()

	res, err := s.processor.Run(c.Request.Context(), req, func(e model.Event) {
		switch e.Kind {
		case model.EventInfo, model.EventProgress:
			stream.write(StreamEvent{Status: e.Kind, Detail: e.Message, Progress: e.Percent, ETA: e.ETASec})
		}
	})

	var final string
	if err == nil {
		final, err = s.finalArtifact(res)
	}
	if err != nil {
		log.Warn("download failed", "url", url, "err", err)
		stream.write(StreamEvent{Status: model.EventError, Detail: err.Error(), ETA: -1})
		s.record(id, req, res, "", err, started)
		return
	}

	name := filepath.Base(final)
	log.Info("download finished", "url", url, "file", name)
	stream.write(StreamEvent{
		Status:   model.EventCompleted,
		Detail:   "Saved to: " + name,
		Progress: 100,
		ETA:      0,
		Filename: id + "/" + name,
	})
	s.record(id, req, res, final, nil, started)
}

// finalArtifact returns the single file or packs several into one zip.
func (s *Server) finalArtifact(res *pipeline.Result) (string, error) {
	if res == nil || len(res.Files) == 0 {
		return "", errors.New("no output produced")
	}
	if len(res.Files) == 1 {
		return res.Files[0], nil
	}
	primary := res.Files[0]
	dest := filepath.Join(filepath.Dir(primary), pipeline.PackName(platform.BaseName(primary)))
	if err := pipeline.Pack(res.Files, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (s *Server) record(id string, req model.Request, res *pipeline.Result, final string, runErr error, started time.Time) {
	if s.recorder == nil {
		return
	}
	entry := history.Entry{
		TaskID:     id,
		URL:        req.URL,
		Format:     string(req.Format),
		Trim:       req.Trim.String(),
		Status:     model.TaskStatusCompleted.String(),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if res != nil {
		entry.Title = res.Title
		entry.Files = res.Files
	}
	if final != "" && (len(entry.Files) != 1 || entry.Files[0] != final) {
		entry.Files = append(append([]string(nil), entry.Files...), final)
	}
	if runErr != nil {
		entry.Status = model.TaskStatusError.String()
		if errors.Is(runErr, context.Canceled) {
			entry.Status = model.TaskStatusStopped.String()
		}
		entry.Error = runErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if _, err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record history", "request", id, "err", err)
	}
}

func (s *Server) handleServeFile(c *gin.Context) {
	name := c.Query("filename")
	if strings.TrimSpace(name) == "" {
		c.JSON(http.StatusBadRequest, errorBody("filename is required"))
		return
	}

	path, err := ResolveFile(s.workDir, name)
	if err != nil {
		c.JSON(http.StatusForbidden, errorBody(err.Error()))
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("stat served file", "path", path, "err", err)
		}
		c.JSON(http.StatusNotFound, errorBody("file not found"))
		return
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(path); err == nil {
		contentType = mt.String()
	}
	c.Header("Content-Type", contentType)
	c.FileAttachment(path, filepath.Base(path))
}

// ResolveFile maps a served name onto workDir and rejects anything outside it.
func ResolveFile(workDir, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return "", ErrForbiddenPath
	}
	root, err := filepath.Abs(workDir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrForbiddenPath
	}
	return path, nil
}

// eventWriter writes NDJSON lines and flushes after each one.
type eventWriter struct {
	c   *gin.Context
	enc *json.Encoder
}

func newEventWriter(c *gin.Context) *eventWriter {
	return &eventWriter{c: c, enc: json.NewEncoder(c.Writer)}
}

func (w *eventWriter) write(e StreamEvent) {
	if w.c.Request.Context().Err() != nil {
		return
	}
	if err := w.enc.Encode(e); err != nil {
		return
	}
	w.c.Writer.Flush()
}
