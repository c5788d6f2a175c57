package media

import (
	"github.com/ytget/tubeloader/internal/model"
)

// FFmpeg constants for the encoding presets
const (
	// Video re-encode used when trimming
	VideoCodec  = "libx264"
	VideoPreset = "veryfast"
	VideoCRF    = "18"

	// Audio settings
	AudioCodecAAC     = "aac"
	AudioBitrateAAC   = "192k"
	AudioCodecMP3     = "libmp3lame"
	ExtractMP3Quality = "2"

	// Container flags
	FastStartFlag = "+faststart"

	// Whisper input format
	WAVSampleRate = "16000"
	WAVChannels   = "1"
	WAVCodec      = "pcm_s16le"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
)

// globalArgs are prepended to every ffmpeg invocation by the runner.
var globalArgs = []string{
	"-hide_banner",
	"-nostdin",
	"-y",
	"-nostats",
	"-progress", ProgressPipeTarget,
}

// MergeArgs muxes a video-only and an audio-only stream into out.
func MergeArgs(video, audio, out string) []string {
	return []string{
		"-i", video,
		"-i", audio,
		"-c:v", "copy",
		"-c:a", AudioCodecAAC,
		out,
	}
}

// VideoTrimArgs cuts [start, end] out of in. The seek goes before the input
// and the video is re-encoded so the cut is frame accurate.
func VideoTrimArgs(in, out, start, end string) []string {
	return []string{
		"-ss", start,
		"-to", end,
		"-i", in,
		"-c:v", VideoCodec,
		"-preset", VideoPreset,
		"-crf", VideoCRF,
		"-c:a", AudioCodecAAC,
		"-b:a", AudioBitrateAAC,
		"-movflags", FastStartFlag,
		out,
	}
}

// AudioTrimArgs cuts [start, end] out of in without re-encoding.
func AudioTrimArgs(in, out, start, end string) []string {
	return []string{
		"-i", in,
		"-ss", start,
		"-to", end,
		"-c", "copy",
		out,
	}
}

// MP3Args encodes in to a constant bitrate MP3.
func MP3Args(in, out string, bitrate model.AudioBitrate) []string {
	return []string{
		"-i", in,
		"-codec:a", AudioCodecMP3,
		"-b:a", bitrate.FFmpegValue(),
		out,
	}
}

// ExtractAudioArgs drops the video track and writes a VBR MP3.
func ExtractAudioArgs(in, out string) []string {
	return []string{
		"-i", in,
		"-vn",
		"-acodec", AudioCodecMP3,
		"-q:a", ExtractMP3Quality,
		out,
	}
}

// WAVArgs converts in to 16 kHz mono PCM, the input whisper.cpp expects.
func WAVArgs(in, out string) []string {
	return []string{
		"-i", in,
		"-ar", WAVSampleRate,
		"-ac", WAVChannels,
		"-c:a", WAVCodec,
		out,
	}
}

// WithGlobalArgs returns the full argument list passed to the binary.
func WithGlobalArgs(args []string) []string {
	out := make([]string, 0, len(globalArgs)+len(args))
	out = append(out, globalArgs...)
	return append(out, args...)
}
