package share

import (
	"encoding/base64"
	"net/url"
	"strings"
	"testing"

	"github.com/dmitrijs2005/mydiary/internal/common"
	"github.com/dmitrijs2005/mydiary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleView() View {
	return View{
		Title:   "Weekend in Riga",
		Content: "Old town, rain, café au lait ☕ — then the seaside.\nSecond line & <html> ?x=1",
		Date:    "2024-05-01T10:20:30.123Z",
		ImageURLs: []string{
			"data:image/jpeg;base64,/9j/4AAQSkZJRgABAQ==",
			"data:image/png;base64,iVBORw0KGgo+/w==",
		},
		AudioURL: "data:audio/webm;base64,GkXfo59ChoEBQveBAULygQ==",
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	views := []View{
		sampleView(),
		{Title: "t", Content: "c", Date: "d"},
		{Title: "", Content: "", Date: "", ImageURLs: []string{}},
		{Title: "ext", Content: "x", Date: "d", ImageURLs: []string{"https://example.com/a.jpg?w=100&h=50"}},
	}
	for _, v := range views {
		token, err := Encode(v)
		require.NoError(t, err)

		got, err := Decode(token)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := Encode(sampleView())
	require.NoError(t, err)
	b, err := Encode(sampleView())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncode_URLSafe(t *testing.T) {
	token, err := Encode(sampleView())
	require.NoError(t, err)

	assert.Equal(t, token, url.QueryEscape(token), "token must survive query escaping unchanged")
	assert.Equal(t, token, url.PathEscape(token))
}

func TestDecode_AcceptsUnescapedForm(t *testing.T) {
	token, err := Encode(sampleView())
	require.NoError(t, err)

	q := url.Values{DataParam: {token}}
	parsed, err := url.ParseQuery(q.Encode())
	require.NoError(t, err)

	got, err := Decode(parsed.Get(DataParam))
	require.NoError(t, err)
	assert.Equal(t, sampleView(), got)
}

func TestScenarioE_MediaOrderSurvives(t *testing.T) {
	v := sampleView()
	token, err := Encode(v)
	require.NoError(t, err)

	got, err := Decode(token)
	require.NoError(t, err)
	require.Len(t, got.ImageURLs, 2)
	assert.Equal(t, v.ImageURLs[0], got.ImageURLs[0])
	assert.Equal(t, v.ImageURLs[1], got.ImageURLs[1])
	assert.Equal(t, v.AudioURL, got.AudioURL)
}

func TestDecode_SingleCharacterTamperingFails(t *testing.T) {
	token, err := Encode(sampleView())
	require.NoError(t, err)

	mid := len(token) / 2
	for i := mid - 40; i <= mid+40; i++ {
		for _, repl := range []byte{'A', 'B', '-', '_', '.', '0'} {
			if token[i] == repl {
				continue
			}
			mutated := token[:i] + string(repl) + token[i+1:]
			_, err := Decode(mutated)
			require.Errorf(t, err, "position %d replaced with %q decoded without error", i, repl)
			require.ErrorIs(t, err, common.ErrInvalidToken)
		}
	}

	// checksum region
	for i := len(token) - 5; i < len(token); i++ {
		repl := byte('A')
		if token[i] == repl {
			repl = 'B'
		}
		_, err := Decode(token[:i] + string(repl) + token[i+1:])
		require.ErrorIs(t, err, common.ErrInvalidToken)
	}
}

func TestDecode_RejectsMalformed(t *testing.T) {
	good, err := Encode(sampleView())
	require.NoError(t, err)
	payload, sum, _ := strings.Cut(good, ".")

	withSum := func(raw string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(raw)) + "." +
			base64.RawURLEncoding.EncodeToString(checksum([]byte(raw)))
	}

	tests := map[string]string{
		"empty":               "",
		"blank":               "   ",
		"no checksum":         payload,
		"two separators":      payload + "." + sum + "." + sum,
		"truncated":           good[:len(good)/2],
		"bad escape":          "%zz" + good,
		"not base64":          "!!!." + sum,
		"padded base64":       payload + "==." + sum,
		"checksum not base64": payload + ".***",
		"not json":            withSum("hello"),
		"json array":          withSum(`[1,2]`),
		"json string":         withSum(`"x"`),
		"missing date":        withSum(`{"title":"a","content":"b"}`),
		"unknown field":       withSum(`{"title":"a","content":"b","date":"c","id":"x"}`),
		"wrong type":          withSum(`{"title":1,"content":"b","date":"c"}`),
		"trailing data":       withSum(`{"title":"a","content":"b","date":"c"} {}`),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := Decode(token)
			require.ErrorIs(t, err, common.ErrInvalidToken)
			assert.True(t, IsInvalid(err))
			assert.Equal(t, View{}, v)
		})
	}
}

func TestDecode_ValidButEmptyIsNotAnError(t *testing.T) {
	token, err := Encode(View{})
	require.NoError(t, err)

	got, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, View{}, got)
}

func TestFromEntry(t *testing.T) {
	e := models.DiaryEntry{
		ID:        "secret-id",
		Title:     "T",
		Content:   "C",
		Date:      "D",
		ImageURLs: []string{"a", "b"},
		AudioURL:  "data:audio/webm;base64,AA==",
	}
	v := FromEntry(e)
	assert.Equal(t, View{Title: "T", Content: "C", Date: "D", ImageURLs: []string{"a", "b"}, AudioURL: e.AudioURL}, v)

	token, err := Encode(v)
	require.NoError(t, err)
	raw, err := base64.RawURLEncoding.DecodeString(strings.SplitN(token, ".", 2)[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-id")
}

func TestEncode_RejectsInvalidUTF8(t *testing.T) {
	for _, v := range []View{
		{Title: "a\xffb", Content: "c", Date: "d"},
		{Title: "t", Content: "c\xc3", Date: "d"},
		{Title: "t", Content: "c", Date: "d", ImageURLs: []string{"ok", "\xff"}},
		{Title: "t", Content: "c", Date: "d", AudioURL: "\xfe"},
	} {
		_, err := Encode(v)
		require.ErrorIs(t, err, common.ErrorValidation)
	}
}
