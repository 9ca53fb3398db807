package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/mydiary/internal/logging"
	"github.com/dmitrijs2005/mydiary/internal/media"
	"github.com/dmitrijs2005/mydiary/internal/models"
	"github.com/dmitrijs2005/mydiary/internal/repositories/kv"
	"github.com/dmitrijs2005/mydiary/internal/services"
	"github.com/dmitrijs2005/mydiary/internal/share"
	"github.com/dmitrijs2005/mydiary/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "http://localhost:3000"

func setup(t *testing.T) (http.Handler, services.DiaryService) {
	t.Helper()
	st := storage.New(kv.NewMemoryRepository(), "", nil)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := services.NewDiaryService(st, testBase, nil, services.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	return NewRouter(NewHandler(svc, nil)), svc
}

func do(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestGetEntry(t *testing.T) {
	h, svc := setup(t)
	e, err := svc.Create(context.Background(), models.Draft{Title: "T", Content: "C"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		status int
		errMsg string
	}{
		{"missing id", "/api/getEntry", http.StatusBadRequest, MsgNoID},
		{"unknown id", "/api/getEntry?id=nope", http.StatusNotFound, MsgNotFound},
		{"found", "/api/getEntry?id=" + url.QueryEscape(e.ID), http.StatusOK, ""},
		{"by path", "/api/entries/" + url.PathEscape(e.ID), http.StatusOK, ""},
		{"by path unknown", "/api/entries/nope", http.StatusNotFound, MsgNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, body["error"])
				return
			}
			assert.NotContains(t, body, "id")
			assert.Equal(t, "T", body["title"])
			assert.Equal(t, "C", body["content"])
			assert.Equal(t, e.Date, body["date"])
			assert.Equal(t, []any{}, body["imageUrls"])
			require.Contains(t, body, "audioUrl")
			assert.Nil(t, body["audioUrl"])
		})
	}
}

func TestGetEntry_WithAudio(t *testing.T) {
	h, svc := setup(t)
	e, err := svc.Create(context.Background(), models.Draft{
		Title:   "T",
		Content: "C",
		Audio:   media.Blob{MIME: "audio/webm", Data: []byte("voice")},
	})
	require.NoError(t, err)

	rec, body := do(t, h, "/api/getEntry?id="+url.QueryEscape(e.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, e.AudioURL, body["audioUrl"])
	assert.Equal(t, []string{"audioUrl", "content", "date", "imageUrls", "title"}, sortedKeys(body))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestListEntries_NewestFirst(t *testing.T) {
	h, svc := setup(t)
	ctx := context.Background()
	first, err := svc.Create(ctx, models.Draft{Title: "first", Content: "x"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, models.Draft{Title: "second", Content: "y"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/entries", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.DiaryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestListEntries_EmptyIsArray(t *testing.T) {
	h, _ := setup(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/entries", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestViewSharedData(t *testing.T) {
	h, svc := setup(t)
	ctx := context.Background()
	e, err := svc.Create(ctx, models.Draft{Title: "Shared", Content: "Hello"})
	require.NoError(t, err)

	link, err := svc.ShareData(ctx, e.ID)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)

	rec, body := do(t, h, u.RequestURI())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Shared", body["title"])
	assert.Equal(t, "Hello", body["content"])
	assert.Equal(t, e.Date, body["date"])
	assert.NotContains(t, body, "id")
}

func TestViewSharedData_Invalid(t *testing.T) {
	h, _ := setup(t)
	token, err := share.Encode(share.View{Title: "a", Content: "b", Date: "c"})
	require.NoError(t, err)
	tampered := "Z" + token[1:]
	if tampered == token {
		tampered = "Y" + token[1:]
	}

	tests := []struct {
		name   string
		target string
		msg    string
	}{
		{"no data", "/share/view", MsgNoData},
		{"garbage", "/share/view?data=not-a-token", MsgInvalidShared},
		{"tampered", "/share/view?data=" + tampered, MsgInvalidShared},
		{"bad escape", "/share/view?data=%25zz", MsgInvalidShared},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestViewSharedID(t *testing.T) {
	h, svc := setup(t)
	e, err := svc.Create(context.Background(), models.Draft{Title: "Mine", Content: "local"})
	require.NoError(t, err)

	rec, body := do(t, h, "/share/view/"+url.PathEscape(e.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mine", body["title"])

	rec, body = do(t, h, "/share/view/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, MsgNotFound, body["error"])
}

func TestMethodNotAllowed(t *testing.T) {
	h, _ := setup(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/entries", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type failingService struct {
	services.DiaryService
	err error
}

func (f failingService) List(context.Context) ([]models.DiaryEntry, error) { return nil, f.err }
func (f failingService) Get(context.Context, string) (models.DiaryEntry, error) {
	panic("boom")
}

func TestInternalErrorsAndPanics(t *testing.T) {
	h := NewRouter(NewHandler(failingService{err: errors.New("disk gone")}, nil))

	rec, body := do(t, h, "/api/entries")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, MsgInternal, body["error"])

	rec, body = do(t, h, "/api/getEntry?id=x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, MsgInternal, body["error"])
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	h, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer(ctx, "127.0.0.1:0", h)

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, logging.Nop()) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
