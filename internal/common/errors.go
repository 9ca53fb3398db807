// Package common defines sentinel errors shared by the storage, media, share
// and service layers of MyDiary. Callers should use errors.Is to match these
// values; most are returned wrapped with additional context.
package common

import "errors"

var (
	// Service-level errors. The entry store itself never returns ErrorNotFound:
	// a missing id is reported as an absent result or a silent no-op.
	ErrorNotFound   = errors.New("not found")
	ErrorValidation = errors.New("validation error")

	// Media errors.
	ErrorMediaRead        = errors.New("media read failed")
	ErrorInvalidDataURI   = errors.New("invalid data uri")
	ErrorPermissionDenied = errors.New("permission denied")
	ErrorNotAudio         = errors.New("not an audio clip")

	// Share link errors.
	ErrInvalidToken = errors.New("invalid share token")
	ErrInvalidLink  = errors.New("invalid share link")
)
