// Package media turns user-supplied binary files (images, voice recordings)
// into self-contained data URIs of the form
//
//	data:<mime-type>;base64,<payload>
//
// which can be stored inside a JSON entry and used directly as the source of
// an image or audio element.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/mydiary/internal/common"
	"github.com/dmitrijs2005/mydiary/internal/models"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"

	// DefaultMIMEType is used when neither the caller nor sniffing can tell.
	DefaultMIMEType = "application/octet-stream"
)

// Blob is an in-memory media source, e.g. a finished voice recording.
type Blob struct {
	MIME string
	Data []byte
}

func (b Blob) MIMEType() string { return b.MIME }

func (b Blob) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

// File is a media source backed by a path on disk.
type File struct {
	Path string
	MIME string
}

// FileSource returns a File for path with its MIME type guessed from the
// extension. Encode falls back to content sniffing when the guess is empty.
func FileSource(path string) File {
	return File{Path: path, MIME: mimeFromExt(path)}
}

func (f File) MIMEType() string { return f.MIME }

func (f File) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// Encode reads src fully and returns its data URI. An empty source MIME type
// is replaced with the sniffed content type.
func Encode(ctx context.Context, src models.MediaSource) (string, error) {
	data, err := readAll(ctx, src)
	if err != nil {
		return "", err
	}

	mt := normalizeMIME(src.MIMEType())
	if mt == "" {
		mt = sniff(data)
	}

	return EncodeBytes(mt, data), nil
}

// EncodeBytes builds a data URI from an already-read payload.
func EncodeBytes(mimeType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(dataPrefix) + len(mimeType) + len(base64Marker) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(dataPrefix)
	b.WriteString(mimeType)
	b.WriteString(base64Marker)
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// EncodeAll encodes srcs one by one and returns the results in input order.
// The first failure aborts the whole batch so that no slot is silently lost.
func EncodeAll(ctx context.Context, srcs []models.MediaSource) ([]string, error) {
	out := make([]string, 0, len(srcs))
	for i, src := range srcs {
		uri, err := Encode(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("media #%d: %w", i, err)
		}
		out = append(out, uri)
	}
	return out, nil
}

// EncodeFile is shorthand for Encode(ctx, FileSource(path)).
func EncodeFile(ctx context.Context, path string) (string, error) {
	return Encode(ctx, FileSource(path))
}

// Decode splits a base64 data URI into its MIME type and raw bytes.
func Decode(uri string) (mimeType string, data []byte, err error) {
	if !strings.HasPrefix(uri, dataPrefix) {
		return "", nil, fmt.Errorf("%w: missing %q prefix", common.ErrorInvalidDataURI, dataPrefix)
	}
	header, payload, ok := strings.Cut(uri[len(dataPrefix):], ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", common.ErrorInvalidDataURI)
	}
	mt, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: not base64 encoded", common.ErrorInvalidDataURI)
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrorInvalidDataURI, err)
	}
	return mt, data, nil
}

// IsDataURI reports whether s is an inline payload rather than an external URL.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, dataPrefix)
}

// MIMEOf returns the MIME type of an inline payload without decoding it,
// or "" for external URLs.
func MIMEOf(uri string) string {
	if !IsDataURI(uri) {
		return ""
	}
	header, _, _ := strings.Cut(uri[len(dataPrefix):], ",")
	mt, _, _ := strings.Cut(header, ";")
	return mt
}

func readAll(ctx context.Context, src models.MediaSource) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorMediaRead, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorMediaRead, err)
	}
	return data, nil
}

func mimeFromExt(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if mt, ok := extraTypes[ext]; ok {
		return mt
	}
	return normalizeMIME(mime.TypeByExtension(ext))
}

// extraTypes covers media extensions missing from minimal mime tables.
var extraTypes = map[string]string{
	".webm": "audio/webm",
	".weba": "audio/webm",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".heic": "image/heic",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
}

// normalizeMIME drops parameters such as "; charset=utf-8".
func normalizeMIME(mt string) string {
	mt = strings.TrimSpace(mt)
	if mt == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(mt)
	if err != nil {
		return mt
	}
	return parsed
}

func sniff(data []byte) string {
	if len(data) == 0 {
		return DefaultMIMEType
	}
	return normalizeMIME(http.DetectContentType(data))
}
