package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/creachadair/atomicfile"
	"github.com/dustin/go-humanize"

	"github.com/ytget/tubeloader/internal/logging"
)

// DefaultModelBaseURL hosts the ggml models published by whisper.cpp.
const DefaultModelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

const modelFileMode = 0o644

// ErrModelMissing is returned when a model file is absent and downloads are off.
var ErrModelMissing = errors.New("whisper model not found")

// ModelFetcher opens a remote model. size is -1 when the server does not say.
type ModelFetcher interface {
	Fetch(ctx context.Context, url string) (body io.ReadCloser, size int64, err error)
}

// HTTPFetcher downloads models over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch implements ModelFetcher.
func (f HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp.Body, resp.ContentLength, nil
}

// ModelStore keeps ggml models in Dir and fetches missing ones on demand.
type ModelStore struct {
	Dir     string
	BaseURL string
	// Fetcher is nil when models must be installed by hand.
	Fetcher ModelFetcher
	// Progress returns a writer that observes the download; nil reports nothing.
	Progress func(name string, size int64) io.Writer
	Logger   *logging.Logger
}

// ModelFileName is ggml-<model>.bin.
func ModelFileName(model string) string {
	return "ggml-" + model + ".bin"
}

// Path is where model lives on disk.
func (s *ModelStore) Path(model string) string {
	return filepath.Join(s.Dir, ModelFileName(model))
}

// URL is where model is downloaded from.
func (s *ModelStore) URL(model string) string {
	base := s.BaseURL
	if base == "" {
		base = DefaultModelBaseURL
	}
	return strings.TrimSuffix(base, "/") + "/" + ModelFileName(model)
}

// Installed reports whether the model file is present.
func (s *ModelStore) Installed(model string) bool {
	info, err := os.Stat(s.Path(model))
	return err == nil && !info.IsDir() && info.Size() > 0
}

// Ensure returns the model path, downloading the file first if needed.
func (s *ModelStore) Ensure(ctx context.Context, model string) (string, error) {
	path := s.Path(model)
	if s.Installed(model) {
		return path, nil
	}
	url := s.URL(model)
	if s.Fetcher == nil {
		return "", fmt.Errorf("%w: %s (download it from %s)", ErrModelMissing, path, url)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}

	log := s.Logger.OrDefault()
	log.Info("downloading whisper model", "model", model, "url", url)
	body, size, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download model %s: %w", model, err)
	}
	defer body.Close()

	var src io.Reader = body
	if s.Progress != nil {
		if w := s.Progress(ModelFileName(model), size); w != nil {
			src = io.TeeReader(body, w)
		}
	}

	var n int64
	err = atomicfile.Tx(path, modelFileMode, func(f *atomicfile.File) error {
		written, err := io.Copy(f, src)
		if err != nil {
			return err
		}
		if size > 0 && written != size {
			return fmt.Errorf("got %d of %d bytes", written, size)
		}
		n = written
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("download model %s: %w", model, err)
	}
	log.Info("whisper model saved", "path", path, "size", humanize.Bytes(uint64(n)))
	return path, nil
}
