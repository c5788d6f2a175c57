package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/tubeloader/internal/model"
)

// writeTestConfig points every directory at a temp dir.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	body := `[paths]
download_dir = "` + filepath.ToSlash(filepath.Join(base, "downloads")) + `"
state_dir = "` + filepath.ToSlash(filepath.Join(base, "state")) + `"
server_work_dir = "` + filepath.ToSlash(filepath.Join(base, "work")) + `"

[tools]
whisper_cli = "` + filepath.ToSlash(filepath.Join(base, "no-whisper")) + `"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Tool", "Status"}, [][]string{{"ffmpeg", "found"}, {"yt-dlp"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "Tool")
	assert.Contains(t, out, "ffmpeg")
	assert.Contains(t, out, "found")
	assert.Equal(t, "", renderTable(nil, nil, nil))
}

func TestDownloadOptionsRequest(t *testing.T) {
	opts := downloadOptions{format: "mp3", bitrate: 192, start: "00:00:01", end: "00:00:09"}
	req, err := opts.request("  https://youtu.be/abc\n", "/tmp/out")
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc", req.URL)
	assert.Equal(t, model.FormatMP3, req.Format)
	assert.Equal(t, model.Bitrate192, req.Bitrate)
	assert.Equal(t, "/tmp/out", req.OutputDir)
	assert.True(t, req.Trim.IsSet())

	opts = downloadOptions{format: "mp4", srtOnly: true, outputDir: "/x"}
	req, err = opts.request("https://youtu.be/abc", "/tmp/out")
	require.NoError(t, err)
	assert.True(t, req.Transcribe)
	assert.True(t, req.DiscardMedia)
	assert.Equal(t, "/x", req.OutputDir)

	_, err = downloadOptions{format: "webm"}.request("https://youtu.be/abc", "/tmp")
	assert.Error(t, err)
	_, err = downloadOptions{format: "mp4", start: "00:00:01"}.request("https://youtu.be/abc", "/tmp")
	assert.Error(t, err)
	_, err = downloadOptions{format: "mp3", bitrate: 96}.request("https://youtu.be/abc", "/tmp")
	assert.Error(t, err)
	_, err = downloadOptions{format: "mp4"}.request(model.URLPlaceholder, "/tmp")
	assert.ErrorIs(t, err, model.ErrEmptyURL)
}

func TestTranscribeCommand_MissingFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfgPath := writeTestConfig(t)
	missing := filepath.Join(t.TempDir(), "nope.mp3")

	out, err := runCLI(t, "--config", cfgPath, "transcribe", "--engine", "openai", missing, t.TempDir())
	require.Error(t, err)
	var reported *reportedError
	assert.True(t, errors.As(err, &reported))
	assert.True(t, strings.HasPrefix(out, "ERROR: "), out)
	assert.Contains(t, out, missing)
}

func TestTranscribeCommand_UnknownEngine(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "--config", cfgPath, "transcribe", "--engine", "vosk", "a.mp3", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "ERROR: unknown transcription engine")
}

func TestConfigCommands(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)
	assert.FileExists(t, target)

	_, err = runCLI(t, "config", "init", "--path", target)
	assert.Error(t, err, "existing file needs --overwrite")

	t.Setenv("OPENAI_API_KEY", "sk-secret")
	out, err = runCLI(t, "--config", writeTestConfig(t), "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[download]")
	assert.NotContains(t, out, "sk-secret")
}

func TestHistoryCommand_Empty(t *testing.T) {
	out, err := runCLI(t, "--config", writeTestConfig(t), "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No downloads yet.")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := runCLI(t, "--config", writeTestConfig(t), "--log-level", "loud", "history")
	assert.ErrorContains(t, err, "log-level")
}

func TestDownloadCommand_Validation(t *testing.T) {
	_, err := runCLI(t, "--config", writeTestConfig(t), "download", "-f", "mp4", "--start", "00:00:05", "https://youtu.be/abc")
	assert.Error(t, err)

	_, err = runCLI(t, "--config", writeTestConfig(t), "download")
	assert.Error(t, err, "a URL is required")
}

func TestPlaylistCommand_RejectsPlainVideo(t *testing.T) {
	_, err := runCLI(t, "--config", writeTestConfig(t), "playlist", "https://www.youtube.com/watch?v=abc")
	assert.ErrorContains(t, err, "not a playlist URL")
}

func TestInteractiveRefusedWhenNonInteractive(t *testing.T) {
	t.Setenv("NON_INTERACTIVE", "1")
	_, err := runCLI(t, "--config", writeTestConfig(t), "interactive")
	assert.ErrorIs(t, err, errNonInteractive)
}
