package transcribe

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI transcribes through the hosted whisper-1 model.
type OpenAI struct {
	client   *openai.Client
	language string
}

// NewOpenAI creates an engine. baseURL may point at any compatible server.
func NewOpenAI(apiKey, baseURL, language string) (*OpenAI, error) {
	if apiKey == "" && baseURL == "" {
		return nil, errors.New("openai engine needs OPENAI_API_KEY or a base URL")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), language: language}, nil
}

// Name implements Engine.
func (o *OpenAI) Name() string { return EngineOpenAI }

// Transcribe uploads mediaPath and maps the verbose_json segments.
func (o *OpenAI) Transcribe(ctx context.Context, mediaPath string) ([]Segment, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: mediaPath,
		Language: o.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, Segment{Start: s.Start, End: s.End, Text: s.Text})
	}
	if len(segments) == 0 && resp.Text != "" {
		segments = append(segments, Segment{Start: 0, End: resp.Duration, Text: resp.Text})
	}
	return segments, nil
}
