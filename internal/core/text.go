package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/illarion/vaultpad/internal/storage"
)

const (
	textIDPrefix     = "txt"
	defaultTextTitle = "Untitled"
)

// ErrNoClipboard is returned by Copy when no clipboard writer is configured
var ErrNoClipboard = errors.New("clipboard unavailable")

// TextStore is the part of the persistent store the text vault uses
type TextStore interface {
	ReadText() ([]storage.TextRecord, error)
	WriteText(list []storage.TextRecord) error
}

// ClipboardWriter receives composed note payloads
type ClipboardWriter interface {
	WriteText(ctx context.Context, text string) error
}

// TextVault stores, lists, copies and deletes notes
type TextVault struct {
	gate      *Gate
	store     TextStore
	clipboard ClipboardWriter
	clock     Clock
	newID     IDFunc
	log       *zap.Logger
}

// NewTextVault creates a text vault
func NewTextVault(gate *Gate, store TextStore, clipboard ClipboardWriter, log *zap.Logger) *TextVault {
	if log == nil {
		log = zap.NewNop()
	}
	return &TextVault{
		gate:      gate,
		store:     store,
		clipboard: clipboard,
		clock:     systemClock{},
		newID:     newRecordID,
		log:       log,
	}
}

// Save creates and persists a note. Title falls back to "Untitled".
func (t *TextVault) Save(title, link, body string) (storage.TextRecord, error) {
	if err := t.gate.RequireUnlocked(); err != nil {
		return storage.TextRecord{}, err
	}

	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)
	body = strings.TrimSpace(body)
	if title == "" && body == "" {
		return storage.TextRecord{}, ErrEmptyContent
	}
	if title == "" {
		title = defaultTextTitle
	}

	list, err := t.store.ReadText()
	if err != nil {
		return storage.TextRecord{}, fmt.Errorf("failed to read text: %w", err)
	}

	rec := storage.TextRecord{
		ID:        t.newID(textIDPrefix),
		Title:     title,
		Link:      link,
		Body:      body,
		CreatedAt: t.clock.Now(),
	}
	if err := t.store.WriteText(append(list, rec)); err != nil {
		return storage.TextRecord{}, fmt.Errorf("failed to store text: %w", err)
	}

	t.log.Debug("note saved", zap.String("id", rec.ID))
	return rec, nil
}

// Reveal returns the stored notes, newest first. ErrSectionLocked means a
// reauth for SectionText must happen first.
func (t *TextVault) Reveal() ([]storage.TextRecord, error) {
	if err := t.gate.RequireSection(SectionText); err != nil {
		return nil, err
	}
	list, err := t.store.ReadText()
	if err != nil {
		return nil, fmt.Errorf("failed to read text: %w", err)
	}
	return storage.NewestText(list), nil
}

// Hide collapses the text section
func (t *TextVault) Hide() {
	t.gate.Hide(SectionText)
}

// Delete removes a note. Deleting an unknown id is not an error.
func (t *TextVault) Delete(id string) error {
	if err := t.gate.RequireUnlocked(); err != nil {
		return err
	}

	list, err := t.store.ReadText()
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}

	remaining, removed := storage.RemoveText(list, id)
	if !removed {
		return nil
	}
	if err := t.store.WriteText(remaining); err != nil {
		return fmt.Errorf("failed to store text: %w", err)
	}

	t.log.Debug("note deleted", zap.String("id", id))
	return nil
}

// View returns a single note
func (t *TextVault) View(id string) (storage.TextRecord, error) {
	if err := t.gate.RequireSection(SectionText); err != nil {
		return storage.TextRecord{}, err
	}
	list, err := t.store.ReadText()
	if err != nil {
		return storage.TextRecord{}, fmt.Errorf("failed to read text: %w", err)
	}
	rec, ok := storage.FindText(list, id)
	if !ok {
		return storage.TextRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// CopyPayload composes the plain-text form of a note:
// title, newline, link, blank line, body, trimmed.
func (t *TextVault) CopyPayload(id string) (string, error) {
	rec, err := t.View(id)
	if err != nil {
		return "", err
	}
	return FormatPayload(rec), nil
}

// FormatPayload renders a note the way it is placed on the clipboard
func FormatPayload(rec storage.TextRecord) string {
	return strings.TrimSpace(rec.Title + "\n" + rec.Link + "\n\n" + rec.Body)
}

// Copy hands the payload of a note to the clipboard writer
func (t *TextVault) Copy(ctx context.Context, id string) error {
	payload, err := t.CopyPayload(id)
	if err != nil {
		return err
	}
	if t.clipboard == nil {
		return ErrNoClipboard
	}
	if err := t.clipboard.WriteText(ctx, payload); err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}
	return nil
}

// Count returns the number of stored notes. It needs no unlock.
func (t *TextVault) Count() (int, error) {
	list, err := t.store.ReadText()
	if err != nil {
		return 0, fmt.Errorf("failed to read text: %w", err)
	}
	return len(list), nil
}
