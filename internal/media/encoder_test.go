package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/mydiary/internal/common"
	"github.com/dmitrijs2005/mydiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeJPEG(size int) []byte {
	b := make([]byte, size)
	r := rand.New(rand.NewSource(42))
	_, _ = r.Read(b)
	copy(b, []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00})
	return b
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestScenarioD_EncodeJPEG(t *testing.T) {
	data := fakeJPEG(10 * 1024)
	path := writeFile(t, "photo.jpg", data)

	uri, err := EncodeFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))

	mt, got, err := Decode(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mt)
	assert.Len(t, got, 10*1024)
	assert.True(t, bytes.Equal(data, got))
}

func TestEncode_PreservesMIMEAndBytes(t *testing.T) {
	tests := []struct {
		name string
		mime string
		data []byte
	}{
		{"png", "image/png", []byte("\x89PNG\r\n\x1a\n rest")},
		{"webm audio", "audio/webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x01, 0x02}},
		{"svg with params", "image/svg+xml", []byte("<svg/>")},
		{"empty", "image/gif", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := Encode(context.Background(), Blob{MIME: tt.mime, Data: tt.data})
			require.NoError(t, err)

			mt, got, err := Decode(uri)
			require.NoError(t, err)
			assert.Equal(t, tt.mime, mt)
			assert.Equal(t, tt.data, append([]byte{}, got...))
			assert.Equal(t, tt.mime, MIMEOf(uri))
		})
	}
}

func TestEncode_DropsMIMEParameters(t *testing.T) {
	uri, err := Encode(context.Background(), Blob{MIME: "audio/webm;codecs=opus", Data: []byte{1}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:audio/webm;base64,"))
}

func TestEncode_SniffsWhenMIMEMissing(t *testing.T) {
	uri, err := Encode(context.Background(), Blob{Data: fakeJPEG(64)})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", MIMEOf(uri))

	uri, err = Encode(context.Background(), Blob{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMIMEType, MIMEOf(uri))
}

func TestFileSource_MIMEFromExtension(t *testing.T) {
	assert.Equal(t, "image/png", FileSource("/x/a.PNG").MIMEType())
	assert.Equal(t, "image/jpeg", FileSource("a.jpeg").MIMEType())
	assert.Equal(t, "audio/webm", FileSource("recording.webm").MIMEType())
	assert.Equal(t, "audio/mpeg", FileSource("song.mp3").MIMEType())
	assert.Equal(t, "", FileSource("noext").MIMEType())
}

type brokenSource struct {
	openErr error
	readErr error
}

func (b brokenSource) MIMEType() string { return "image/png" }

func (b brokenSource) Open() (io.ReadCloser, error) {
	if b.openErr != nil {
		return nil, b.openErr
	}
	return io.NopCloser(errReader{b.readErr}), nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestEncode_ReadFailures(t *testing.T) {
	ctx := context.Background()

	_, err := Encode(ctx, brokenSource{openErr: os.ErrPermission})
	require.ErrorIs(t, err, common.ErrorMediaRead)

	_, err = Encode(ctx, brokenSource{readErr: errors.New("handle revoked")})
	require.ErrorIs(t, err, common.ErrorMediaRead)

	_, err = EncodeFile(ctx, filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorIs(t, err, common.ErrorMediaRead)
}

func TestEncode_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Encode(ctx, Blob{MIME: "image/png", Data: []byte{1}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEncodeAll_KeepsOrder(t *testing.T) {
	srcs := []models.MediaSource{
		Blob{MIME: "image/png", Data: []byte("first")},
		Blob{MIME: "image/jpeg", Data: []byte("second")},
		FileSource(writeFile(t, "third.gif", []byte("GIF89a third"))),
	}

	out, err := EncodeAll(context.Background(), srcs)
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i, want := range []string{"first", "second", "GIF89a third"} {
		_, data, err := Decode(out[i])
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
	assert.Equal(t, "image/gif", MIMEOf(out[2]))
}

func TestEncodeAll_AbortsOnFailure(t *testing.T) {
	srcs := []models.MediaSource{
		Blob{MIME: "image/png", Data: []byte("ok")},
		brokenSource{openErr: os.ErrNotExist},
		Blob{MIME: "image/png", Data: []byte("never")},
	}

	out, err := EncodeAll(context.Background(), srcs)
	require.ErrorIs(t, err, common.ErrorMediaRead)
	assert.Contains(t, err.Error(), "media #1")
	assert.Nil(t, out)
}

func TestEncodeAll_Empty(t *testing.T) {
	out, err := EncodeAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDecode_Rejects(t *testing.T) {
	for _, uri := range []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,***",
	} {
		_, _, err := Decode(uri)
		require.ErrorIs(t, err, common.ErrorInvalidDataURI, uri)
	}
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI("data:image/png;base64,AA=="))
	assert.False(t, IsDataURI("https://example.com/a.png"))
	assert.Equal(t, "", MIMEOf("https://example.com/a.png"))
}
