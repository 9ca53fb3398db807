package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mydiary/internal/common"
	"github.com/dmitrijs2005/mydiary/internal/media"
	"github.com/dmitrijs2005/mydiary/internal/models"
	"github.com/dmitrijs2005/mydiary/internal/share"
)

const (
	previewLen = 100
	// removeAudio is typed at the audio prompt to drop the current recording.
	removeAudio = "-"
)

var errNoID = errors.New("entry id is required")

// List prints every entry, newest first, with a short content preview.
func (a *App) List(ctx context.Context) error {
	entries, err := a.svc.List(ctx)
	if err != nil {
		return a.fail(ctx, "list", err)
	}
	if len(entries) == 0 {
		a.println("No entries yet. Type 'add' to write one.")
		return nil
	}
	for _, e := range entries {
		a.printf("%s  %s  %s\n", e.ID, displayDate(e.Date), e.Title)
		if p := e.Preview(previewLen); p != "" {
			a.printf("    %s\n", p)
		}
	}
	return nil
}

// Show prints one entry in full.
func (a *App) Show(ctx context.Context, id string) error {
	id, err := a.requireID(id)
	if err != nil {
		return a.fail(ctx, "show", err)
	}
	e, err := a.svc.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, "show", err)
	}
	a.printView(share.FromEntry(e))
	return nil
}

// Add collects a new entry from the user and saves it.
func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return a.fail(ctx, "add", err)
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return a.fail(ctx, "add", err)
	}
	images, err := a.readImages("Image file paths")
	if err != nil {
		return a.fail(ctx, "add", err)
	}
	audioPath, err := GetSimpleText(a.reader, "Audio file path (empty for none)", a.out)
	if err != nil {
		return a.fail(ctx, "add", err)
	}

	draft := models.Draft{Title: title, Content: content, NewImages: images}
	if audioPath != "" {
		draft.Audio = media.FileRecorder{Path: audioPath}
	}

	e, err := a.svc.Create(ctx, draft)
	if err != nil {
		return a.fail(ctx, "add", err)
	}
	a.printf("Saved entry %s\n", e.ID)
	return nil
}

// Edit prefills the form from the stored entry: an empty answer keeps the
// current value.
func (a *App) Edit(ctx context.Context, id string) error {
	id, err := a.requireID(id)
	if err != nil {
		return a.fail(ctx, "edit", err)
	}
	current, err := a.svc.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, "edit", err)
	}

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]", current.Title), a.out)
	if err != nil {
		return a.fail(ctx, "edit", err)
	}
	if title == "" {
		title = current.Title
	}

	content, err := GetMultiline(a.reader, "Content (empty keeps the current text)", a.out)
	if err != nil {
		return a.fail(ctx, "edit", err)
	}
	if content == "" {
		content = current.Content
	}

	draft := models.Draft{Title: title, Content: content}

	if len(current.ImageURLs) > 0 {
		keep, err := Confirm(a.reader, fmt.Sprintf("Keep the %d existing image(s)?", len(current.ImageURLs)), true, a.out)
		if err != nil {
			return a.fail(ctx, "edit", err)
		}
		if keep {
			draft.KeepImages = current.ImageURLs
		}
	}

	if draft.NewImages, err = a.readImages("Additional image file paths"); err != nil {
		return a.fail(ctx, "edit", err)
	}

	audioPrompt := "Audio file path (empty for none)"
	if current.HasAudio() {
		audioPrompt = fmt.Sprintf("Audio file path (empty keeps the current recording, %q removes it)", removeAudio)
	}
	audioPath, err := GetSimpleText(a.reader, audioPrompt, a.out)
	if err != nil {
		return a.fail(ctx, "edit", err)
	}
	switch audioPath {
	case "":
	case removeAudio:
		draft.RemoveAudio = true
	default:
		draft.Audio = media.FileRecorder{Path: audioPath}
	}

	if _, err := a.svc.Edit(ctx, id, draft); err != nil {
		return a.fail(ctx, "edit", err)
	}
	a.printf("Updated entry %s\n", id)
	return nil
}

// Delete removes an entry after confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	id, err := a.requireID(id)
	if err != nil {
		return a.fail(ctx, "delete", err)
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete entry %s?", id), false, a.out)
	if err != nil {
		return a.fail(ctx, "delete", err)
	}
	if !ok {
		a.println("Cancelled.")
		return nil
	}
	if err := a.svc.Delete(ctx, id); err != nil {
		return a.fail(ctx, "delete", err)
	}
	a.println("Deleted.")
	return nil
}

// Share prints a self-contained link carrying the entry's content.
func (a *App) Share(ctx context.Context, id string) error {
	id, err := a.requireID(id)
	if err != nil {
		return a.fail(ctx, "share", err)
	}
	link, err := a.svc.ShareData(ctx, id)
	if err != nil {
		return a.fail(ctx, "share", err)
	}
	a.println(link)
	return nil
}

// ShareID prints a link that only resolves on this device.
func (a *App) ShareID(ctx context.Context, id string) error {
	id, err := a.requireID(id)
	if err != nil {
		return a.fail(ctx, "shareid", err)
	}
	link, err := a.svc.ShareByID(ctx, id)
	if err != nil {
		return a.fail(ctx, "shareid", err)
	}
	a.println(link)
	a.println("Note: this link only works on this device.")
	return nil
}

// Open displays a shared entry from a link or bare token.
func (a *App) Open(ctx context.Context, link string) error {
	if link == "" {
		var err error
		if link, err = GetSimpleText(a.reader, "Shared link", a.out); err != nil {
			return a.fail(ctx, "open", err)
		}
	}
	v, err := a.svc.OpenShared(ctx, link)
	if err != nil {
		return a.fail(ctx, "open", err)
	}
	a.printView(v)
	return nil
}

func (a *App) requireID(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	id, err := GetSimpleText(a.reader, "Entry id", a.out)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errNoID
	}
	return id, nil
}

func (a *App) readImages(prompt string) ([]models.MediaSource, error) {
	paths, err := GetList(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}
	srcs := make([]models.MediaSource, 0, len(paths))
	for _, p := range paths {
		srcs = append(srcs, media.FileSource(p))
	}
	return srcs, nil
}

func (a *App) printView(v share.View) {
	a.printf("%s\n%s\n\n%s\n", v.Title, displayDate(v.Date), v.Content)
	for i, img := range v.ImageURLs {
		a.printf("[image %d] %s\n", i+1, describeMedia(img))
	}
	if v.AudioURL != "" {
		a.printf("[audio] %s\n", describeMedia(v.AudioURL))
	}
}

// describeMedia summarizes a data URI instead of dumping it.
func describeMedia(u string) string {
	if !media.IsDataURI(u) {
		return u
	}
	mt, data, err := media.Decode(u)
	if err != nil {
		return "unreadable inline data"
	}
	return fmt.Sprintf("%s, %d bytes", mt, len(data))
}

func displayDate(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return "Title and content are required."
	case errors.Is(err, common.ErrorNotFound):
		return "Entry not found."
	case share.IsInvalid(err):
		return "Could not load the shared entry. The link may be invalid or corrupted."
	case errors.Is(err, common.ErrorNotAudio):
		return "The audio file is not an audio recording."
	case errors.Is(err, common.ErrorMediaRead):
		return "Could not read media file (" + err.Error() + ")."
	default:
		return err.Error()
	}
}
