package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/tubeloader/internal/config"
)

func TestModelRow(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.ModelDir = t.TempDir()
	cfg.Transcription.Model = "base"
	modelPath := filepath.Join(cfg.Transcription.ModelDir, "ggml-base.bin")

	row := modelRow(&cfg)
	assert.Equal(t, []string{
		"Whisper model base",
		"missing (downloaded on first use)",
		modelPath,
		"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.bin",
	}, row)

	cfg.Transcription.AutoDownloadModel = false
	row = modelRow(&cfg)
	assert.Equal(t, "missing (optional)", row[1])
	assert.Contains(t, row[3], "download from https://")

	require.NoError(t, os.WriteFile(modelPath, []byte("ggml"), 0o644))
	row = modelRow(&cfg)
	assert.Equal(t, "found", row[1])
}
