package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/mydiary/internal/common"
	"github.com/dmitrijs2005/mydiary/internal/logging"
	"github.com/dmitrijs2005/mydiary/internal/media"
	"github.com/dmitrijs2005/mydiary/internal/models"
	"github.com/dmitrijs2005/mydiary/internal/share"
	"github.com/google/uuid"
)

// EntryStore is the persistence contract the service needs; *storage.Store
// satisfies it.
type EntryStore interface {
	Create(ctx context.Context, entry models.DiaryEntry) error
	List(ctx context.Context) ([]models.DiaryEntry, error)
	GetByID(ctx context.Context, id string) (models.DiaryEntry, bool, error)
	Update(ctx context.Context, entry models.DiaryEntry) error
	DeleteByID(ctx context.Context, id string) error
}

type DiaryService interface {
	Create(ctx context.Context, draft models.Draft) (models.DiaryEntry, error)
	Edit(ctx context.Context, id string, draft models.Draft) (models.DiaryEntry, error)
	List(ctx context.Context) ([]models.DiaryEntry, error)
	Get(ctx context.Context, id string) (models.DiaryEntry, error)
	Delete(ctx context.Context, id string) error
	ShareData(ctx context.Context, id string) (string, error)
	ShareByID(ctx context.Context, id string) (string, error)
	OpenShared(ctx context.Context, link string) (share.View, error)
}

// Option customizes a diaryService.
type Option func(*diaryService)

// WithClock overrides the time source used for entry dates.
func WithClock(now func() time.Time) Option {
	return func(s *diaryService) { s.now = now }
}

// WithIDGenerator overrides uuid-based id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *diaryService) { s.newID = gen }
}

type diaryService struct {
	store   EntryStore
	baseURL string
	log     logging.Logger
	now     func() time.Time
	newID   func() string
}

// NewDiaryService wires the entry store with media encoding and share links
// rooted at baseURL.
func NewDiaryService(store EntryStore, baseURL string, log logging.Logger, opts ...Option) DiaryService {
	if log == nil {
		log = logging.Nop()
	}
	s := &diaryService{
		store:   store,
		baseURL: baseURL,
		log:     log.With("component", "diary"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *diaryService) Create(ctx context.Context, draft models.Draft) (models.DiaryEntry, error) {
	if err := draft.Validate(); err != nil {
		return models.DiaryEntry{}, err
	}

	images, err := media.EncodeAll(ctx, draft.NewImages)
	if err != nil {
		return models.DiaryEntry{}, fmt.Errorf("encode images: %w", err)
	}

	audio := ""
	if draft.Audio != nil {
		if audio, err = media.EncodeRecording(ctx, draft.Audio); err != nil {
			return models.DiaryEntry{}, fmt.Errorf("encode audio: %w", err)
		}
	}

	entry := models.DiaryEntry{
		ID:        s.newID(),
		Title:     draft.Title,
		Content:   draft.Content,
		Date:      models.FormatDate(s.now()),
		ImageURLs: append(append([]string{}, draft.KeepImages...), images...),
		AudioURL:  audio,
	}

	if err := s.store.Create(ctx, entry); err != nil {
		return models.DiaryEntry{}, fmt.Errorf("saving error: %w", err)
	}

	s.log.Info(ctx, "entry created", "id", entry.ID, "images", len(entry.ImageURLs), "audio", entry.HasAudio())
	return entry, nil
}

// Edit rebuilds the whole record from draft and replaces the stored one.
func (s *diaryService) Edit(ctx context.Context, id string, draft models.Draft) (models.DiaryEntry, error) {
	if err := draft.Validate(); err != nil {
		return models.DiaryEntry{}, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return models.DiaryEntry{}, err
	}

	images, err := media.EncodeAll(ctx, draft.NewImages)
	if err != nil {
		return models.DiaryEntry{}, fmt.Errorf("encode images: %w", err)
	}

	audio := current.AudioURL
	switch {
	case draft.Audio != nil:
		if audio, err = media.EncodeRecording(ctx, draft.Audio); err != nil {
			return models.DiaryEntry{}, fmt.Errorf("encode audio: %w", err)
		}
	case draft.RemoveAudio:
		audio = ""
	}

	updated := models.DiaryEntry{
		ID:        current.ID,
		Title:     draft.Title,
		Content:   draft.Content,
		Date:      models.FormatDate(s.now()),
		ImageURLs: append(append([]string{}, draft.KeepImages...), images...),
		AudioURL:  audio,
	}

	if err := s.store.Update(ctx, updated); err != nil {
		return models.DiaryEntry{}, fmt.Errorf("saving error: %w", err)
	}

	s.log.Info(ctx, "entry updated", "id", id, "images", len(updated.ImageURLs), "audio", updated.HasAudio())
	return updated, nil
}

// List returns entries newest first. Entries whose date does not parse go last
// in stored order. The stored order itself is untouched.
func (s *diaryService) List(ctx context.Context) ([]models.DiaryEntry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing entries: %w", err)
	}
	SortNewestFirst(entries)
	return entries, nil
}

func (s *diaryService) Get(ctx context.Context, id string) (models.DiaryEntry, error) {
	entry, ok, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.DiaryEntry{}, fmt.Errorf("error retrieving entry: %w", err)
	}
	if !ok {
		return models.DiaryEntry{}, fmt.Errorf("entry %s: %w", id, common.ErrorNotFound)
	}
	return entry, nil
}

// Delete removes id. Deleting an unknown id succeeds.
func (s *diaryService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("error deleting entry: %w", err)
	}
	s.log.Info(ctx, "entry deleted", "id", id)
	return nil
}

// ShareData returns a link that embeds the entry itself.
func (s *diaryService) ShareData(ctx context.Context, id string) (string, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	link, err := share.DataLink(s.baseURL, share.FromEntry(entry))
	if err != nil {
		return "", fmt.Errorf("error building share link: %w", err)
	}
	s.log.Debug(ctx, "share link built", "id", id, "mode", "data", "length", len(link))
	return link, nil
}

// ShareByID returns a link carrying only the id. It resolves only against
// this device's store.
func (s *diaryService) ShareByID(ctx context.Context, id string) (string, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return "", err
	}
	return share.IDLink(s.baseURL, id), nil
}

// OpenShared resolves a data link, an id link or a bare data token.
func (s *diaryService) OpenShared(ctx context.Context, link string) (share.View, error) {
	link = strings.TrimSpace(link)

	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" {
		return share.Decode(link)
	}

	if u.Query().Has(share.DataParam) {
		return share.ParseDataLink(link)
	}

	id, err := share.ParseIDLink(link)
	if err != nil {
		return share.View{}, err
	}
	entry, err := s.Get(ctx, id)
	if err != nil {
		return share.View{}, err
	}
	return share.FromEntry(entry), nil
}

// SortNewestFirst orders entries by Date descending, stable for ties.
func SortNewestFirst(entries []models.DiaryEntry) {
	type keyed struct {
		t  time.Time
		ok bool
	}
	keys := make([]keyed, len(entries))
	idx := make([]int, len(entries))
	for i, e := range entries {
		t, err := e.Time()
		keys[i] = keyed{t: t, ok: err == nil}
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.ok != kb.ok {
			return ka.ok
		}
		return ka.t.After(kb.t)
	})

	sorted := make([]models.DiaryEntry, len(entries))
	for i, j := range idx {
		sorted[i] = entries[j]
	}
	copy(entries, sorted)
}
