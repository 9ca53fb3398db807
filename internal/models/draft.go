package models

import (
	"context"
	"io"
)

// MediaSource is a user-supplied file: something with a MIME type whose
// full content can be read.
type MediaSource interface {
	MIMEType() string
	Open() (io.ReadCloser, error)
}

// Recorder yields one finished audio clip. A refused microphone is reported
// as common.ErrorPermissionDenied.
type Recorder interface {
	Record(ctx context.Context) (MediaSource, error)
}

// Draft is what a create or edit form submits.
type Draft struct {
	Title   string
	Content string

	// KeepImages are already-stored image URLs retained on edit, in order.
	KeepImages []string
	// NewImages are appended after KeepImages once encoded.
	NewImages []MediaSource

	// Audio replaces the current recording when set. The clip must carry an
	// audio/* MIME type.
	Audio Recorder
	// RemoveAudio clears the current recording on edit. Ignored when Audio is set.
	RemoveAudio bool
}

// Validate applies the same form rules as DiaryEntry.Validate.
func (d Draft) Validate() error {
	return DiaryEntry{Title: d.Title, Content: d.Content}.Validate()
}
