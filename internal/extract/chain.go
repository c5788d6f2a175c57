package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/ytget/tubeloader/internal/model"
)

// Chain asks each metadata source in turn and downloads through a single fetcher.
type Chain struct {
	sources []MetadataSource
	fetcher Fetcher
}

// NewChain builds the extractor for a metadata source mode. ytdlp is used
// for every download regardless of mode.
func NewChain(mode string, ytdlp *YTDLP, native MetadataSource) (*Chain, error) {
	c := &Chain{fetcher: ytdlp}
	switch mode {
	case "", SourceYTDLP:
		c.sources = []MetadataSource{ytdlp}
	case SourceNative:
		c.sources = []MetadataSource{native}
	case SourceAuto:
		c.sources = []MetadataSource{native, ytdlp}
	default:
		return nil, fmt.Errorf("unknown metadata source %q", mode)
	}
	return c, nil
}

// Info returns the first successful answer.
func (c *Chain) Info(ctx context.Context, url string) (*model.VideoInfo, error) {
	var errs []error
	for _, s := range c.sources {
		info, err := s.Info(ctx, url)
		if err == nil {
			return info, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

// Fetch delegates to the fetcher.
func (c *Chain) Fetch(ctx context.Context, url, selector, dest string, onProgress func(Progress)) error {
	return c.fetcher.Fetch(ctx, url, selector, dest, onProgress)
}
