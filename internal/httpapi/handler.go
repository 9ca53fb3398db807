// Package httpapi exposes a read-only HTTP view of the local diary: single
// entry lookup, the full list and both share-link modes.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mydiary/internal/common"
	"github.com/dmitrijs2005/mydiary/internal/logging"
	"github.com/dmitrijs2005/mydiary/internal/models"
	"github.com/dmitrijs2005/mydiary/internal/services"
	"github.com/dmitrijs2005/mydiary/internal/share"
	"github.com/gorilla/mux"
)

// Messages shown to the recipient of a link.
const (
	MsgNoID          = "No entry ID provided"
	MsgNotFound      = "Entry not found"
	MsgNoData        = "No entry data found in URL"
	MsgInvalidShared = "Could not load the shared entry. The link may be invalid or corrupted."
	MsgInternal      = "Internal server error"
)

type Handler struct {
	svc services.DiaryService
	log logging.Logger
}

func NewHandler(svc services.DiaryService, log logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{svc: svc, log: log.With("component", "httpapi")}
}

type errorResponse struct {
	Error string `json:"error"`
}

// entryResponse is the body of a single-entry lookup. The id is not echoed
// and audioUrl is null when the entry has no recording.
type entryResponse struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Date      string   `json:"date"`
	ImageURLs []string `json:"imageUrls"`
	AudioURL  *string  `json:"audioUrl"`
}

func newEntryResponse(e models.DiaryEntry) entryResponse {
	r := entryResponse{
		Title:     e.Title,
		Content:   e.Content,
		Date:      e.Date,
		ImageURLs: e.ImageURLs,
	}
	if r.ImageURLs == nil {
		r.ImageURLs = []string{}
	}
	if e.HasAudio() {
		audio := e.AudioURL
		r.AudioURL = &audio
	}
	return r
}

// GetEntry serves /api/getEntry?id=<id>.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: MsgNoID})
		return
	}
	h.serveEntry(w, r, id)
}

// GetEntryByPath serves /api/entries/{id}.
func (h *Handler) GetEntryByPath(w http.ResponseWriter, r *http.Request) {
	h.serveEntry(w, r, mux.Vars(r)["id"])
}

func (h *Handler) serveEntry(w http.ResponseWriter, r *http.Request, id string) {
	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, newEntryResponse(entry))
}

// ListEntries serves /api/entries, newest first.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, entries)
}

// ViewSharedData serves /share/view?data=<token>.
func (h *Handler) ViewSharedData(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get(share.DataParam)
	if token == "" {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: MsgNoData})
		return
	}
	v, err := share.Decode(token)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, v)
}

// ViewSharedID serves /share/view/{id} from the local store.
func (h *Handler) ViewSharedID(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, share.FromEntry(entry))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		h.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: MsgNotFound})
	case share.IsInvalid(err):
		h.log.Warn(r.Context(), "shared entry rejected", "error", err)
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: MsgInvalidShared})
	default:
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		h.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: MsgInternal})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error(r.Context(), "write response", "error", err)
	}
}
