package transcribe

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/atomicfile"

	"github.com/ytget/tubeloader/internal/timecode"
)

const srtFileMode = 0644

// EncodeSRT writes segments as SubRip cues numbered from 1.
func EncodeSRT(w io.Writer, segments []Segment) error {
	for i, seg := range segments {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1,
			timecode.FormatSRT(seg.Start),
			timecode.FormatSRT(seg.End),
			strings.TrimSpace(seg.Text),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteSRT replaces path atomically with the encoded segments.
func WriteSRT(path string, segments []Segment) error {
	var buf bytes.Buffer
	if err := EncodeSRT(&buf, segments); err != nil {
		return err
	}
	if err := atomicfile.WriteData(path, buf.Bytes(), srtFileMode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
