package httpapi

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/mydiary/internal/share"
	"github.com/gorilla/mux"
)

// NewRouter wires the handler's routes.
func NewRouter(h *Handler) *mux.Router {
	root := mux.NewRouter()
	root.Use(h.recoverPanics, h.logRequests)

	root.HandleFunc("/api/getEntry", h.GetEntry).Methods(http.MethodGet)
	root.HandleFunc("/api/entries", h.ListEntries).Methods(http.MethodGet)
	root.HandleFunc("/api/entries/{id}", h.GetEntryByPath).Methods(http.MethodGet)
	root.HandleFunc(share.ViewPath, h.ViewSharedData).Methods(http.MethodGet)
	root.HandleFunc(share.ViewPath+"/{id}", h.ViewSharedID).Methods(http.MethodGet)

	return root
}

func (h *Handler) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				h.log.Error(r.Context(), "panic in handler", "panic", p, "stack", string(debug.Stack()))
				h.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: MsgInternal})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Debug(r.Context(), "request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
