package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mydiary/internal/common"
	"github.com/dmitrijs2005/mydiary/internal/models"
)

// Recorder is the audio-capture surface. Record blocks until one finished
// clip is available or capture fails; a refused microphone is reported as
// common.ErrorPermissionDenied.
type Recorder = models.Recorder

// EncodeRecording captures one clip from rec and returns it as a data URI.
// Clips without an audio/* MIME type are rejected with common.ErrorNotAudio.
func EncodeRecording(ctx context.Context, rec Recorder) (string, error) {
	clip, err := rec.Record(ctx)
	if err != nil {
		return "", fmt.Errorf("record audio: %w", err)
	}
	if mt := normalizeMIME(clip.MIMEType()); !strings.HasPrefix(mt, "audio/") {
		return "", fmt.Errorf("record audio: %w: mime type %q", common.ErrorNotAudio, clip.MIMEType())
	}
	return Encode(ctx, clip)
}

// Record returns b itself, so a finished in-memory clip can stand in for a
// Recorder.
func (b Blob) Record(context.Context) (models.MediaSource, error) { return b, nil }

// FileRecorder replays a pre-recorded audio file as if it had just been
// captured. It stands in for a microphone in the CLI and in tests.
type FileRecorder struct {
	Path string
}

func (r FileRecorder) Record(ctx context.Context) (models.MediaSource, error) {
	f := FileSource(r.Path)
	data, err := readAll(ctx, f)
	if err != nil {
		return nil, err
	}
	mt := f.MIME
	if mt == "" {
		mt = sniff(data)
	}
	return Blob{MIME: mt, Data: data}, nil
}
