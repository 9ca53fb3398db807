// Package share encodes diary entries for link-based sharing.
//
// Two modes exist and are kept apart on purpose:
//
//   - by data: the link carries the entry itself (Encode/Decode, DataLink/ParseDataLink).
//     It works on any device because nothing is looked up.
//   - by id: the link carries only the entry id (IDLink/ParseIDLink). It only
//     resolves on the device whose local store holds that entry.
//
// A data token is the unpadded URL-safe base64 encoding of the JSON view, a
// dot, and a truncated BLAKE2b-256 checksum of that JSON. Every character of
// the token is URL-unreserved, so percent-encoding leaves it intact, and the
// checksum makes single-character corruption fail loudly instead of decoding
// into a different entry.
package share

import (
	"bytes"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/mydiary/internal/common"
	"github.com/dmitrijs2005/mydiary/internal/models"
	"golang.org/x/crypto/blake2b"
)

const (
	checksumSize = 12
	separator    = "."
)

var (
	payloadEncoding  = base64.RawURLEncoding.Strict()
	checksumEncoding = base64.RawURLEncoding.Strict()
)

// View is the shareable excerpt of an entry.
type View struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Date      string   `json:"date"`
	ImageURLs []string `json:"imageUrls"`
	AudioURL  string   `json:"audioUrl,omitempty"`
}

// FromEntry copies the shareable fields of e.
func FromEntry(e models.DiaryEntry) View {
	return View{
		Title:     e.Title,
		Content:   e.Content,
		Date:      e.Date,
		ImageURLs: e.ImageURLs,
		AudioURL:  e.AudioURL,
	}
}

// wireView mirrors View with pointers so missing required keys are detectable.
type wireView struct {
	Title     *string  `json:"title"`
	Content   *string  `json:"content"`
	Date      *string  `json:"date"`
	ImageURLs []string `json:"imageUrls"`
	AudioURL  string   `json:"audioUrl"`
}

// Encode serializes v into a URL-safe token. The same view always yields the
// same token.
func Encode(v View) (string, error) {
	if err := models.CheckUTF8(append([]string{v.Title, v.Content, v.Date, v.AudioURL}, v.ImageURLs...)...); err != nil {
		return "", err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal share view: %w", err)
	}
	token := payloadEncoding.EncodeToString(raw) + separator + checksumEncoding.EncodeToString(checksum(raw))
	return url.QueryEscape(token), nil
}

// Decode reverses Encode. It accepts the token either still percent-encoded
// or already unescaped (as returned by url.Values.Get). Any malformed input
// yields an error wrapping common.ErrInvalidToken.
func Decode(token string) (View, error) {
	if strings.TrimSpace(token) == "" {
		return View{}, invalid("empty token")
	}

	unescaped, err := url.PathUnescape(token)
	if err != nil {
		return View{}, invalid("bad escaping: %v", err)
	}

	payload, sum, ok := strings.Cut(unescaped, separator)
	if !ok || strings.Contains(sum, separator) {
		return View{}, invalid("missing checksum")
	}

	raw, err := payloadEncoding.DecodeString(payload)
	if err != nil {
		return View{}, invalid("bad payload: %v", err)
	}
	want, err := checksumEncoding.DecodeString(sum)
	if err != nil {
		return View{}, invalid("bad checksum: %v", err)
	}
	if subtle.ConstantTimeCompare(want, checksum(raw)) != 1 {
		return View{}, invalid("checksum mismatch")
	}

	return decodeJSON(raw)
}

func decodeJSON(raw []byte) (View, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var w wireView
	if err := dec.Decode(&w); err != nil {
		return View{}, invalid("bad json: %v", err)
	}
	if dec.More() {
		return View{}, invalid("trailing data")
	}
	if w.Title == nil || w.Content == nil || w.Date == nil {
		return View{}, invalid("missing title, content or date")
	}

	return View{
		Title:     *w.Title,
		Content:   *w.Content,
		Date:      *w.Date,
		ImageURLs: w.ImageURLs,
		AudioURL:  w.AudioURL,
	}, nil
}

func checksum(raw []byte) []byte {
	sum := blake2b.Sum256(raw)
	return sum[:checksumSize]
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidToken, fmt.Sprintf(format, args...))
}

// IsInvalid reports whether err came from decoding a bad token or link.
func IsInvalid(err error) bool {
	return errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrInvalidLink)
}
