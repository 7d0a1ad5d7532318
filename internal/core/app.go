package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/illarion/vaultpad/internal/storage"
)

// Severity classifies a notification
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	}
	return "info"
}

// Notifier presents short fire-and-forget messages to the user
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string, severity Severity)

func (f NotifierFunc) Notify(message string, severity Severity) { f(message, severity) }

type nopNotifier struct{}

func (nopNotifier) Notify(string, Severity) {}

// Store is the full persistent store an App runs on
type Store interface {
	CredentialStore
	MediaStore
	TextStore
}

// Option configures an App
type Option func(*App)

// WithLogger sets the logger shared by all components
func WithLogger(log *zap.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithNotifier sets the presenter for success and failure messages
func WithNotifier(n Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// WithEncoder sets the image encoder used by uploads
func WithEncoder(e ImageEncoder) Option {
	return func(a *App) { a.encoder = e }
}

// WithClipboard sets the clipboard writer used by CopyText
func WithClipboard(c ClipboardWriter) Option {
	return func(a *App) { a.clipboard = c }
}

// WithClock sets the clock used for record timestamps
func WithClock(c Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithIDs sets the record id generator
func WithIDs(f IDFunc) Option {
	return func(a *App) { a.ids = f }
}

// App is one application run: a fresh locked Session plus the components
// gated by it. It exposes the user-facing operation surface.
type App struct {
	Gate  *Gate
	Media *MediaVault
	Text  *TextVault

	store     Store
	notifier  Notifier
	encoder   ImageEncoder
	clipboard ClipboardWriter
	clock     Clock
	ids       IDFunc
	log       *zap.Logger
}

// New wires an App over the store. Every App starts locked.
func New(store Store, opts ...Option) *App {
	a := &App{
		store:    store,
		notifier: nopNotifier{},
		clock:    systemClock{},
		ids:      newRecordID,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	if a.notifier == nil {
		a.notifier = nopNotifier{}
	}

	a.Gate = NewGate(store, NewSession(), a.log.Named("gate"))
	a.Media = NewMediaVault(a.Gate, store, a.encoder, a.log.Named("media"))
	a.Media.clock, a.Media.newID = a.clock, a.ids
	a.Text = NewTextVault(a.Gate, store, a.clipboard, a.log.Named("text"))
	a.Text.clock, a.Text.newID = a.clock, a.ids
	return a
}

// Session returns the unlock flags of this run
func (a *App) Session() *Session {
	return a.Gate.Session()
}

// Unlock performs the primary unlock
func (a *App) Unlock(candidate string) error {
	if err := a.Gate.Unlock(candidate); err != nil {
		return err
	}
	a.notifier.Notify("Vault unlocked", SeveritySuccess)
	return nil
}

// Reauth opens a section
func (a *App) Reauth(candidate string, section Section) error {
	if err := a.Gate.Reauth(candidate, section); err != nil {
		return err
	}
	a.notifier.Notify("Access granted", SeveritySuccess)
	return nil
}

// ChangePassword replaces the credential. The settings screen that offers it
// is only reachable while unlocked.
func (a *App) ChangePassword(current, next1, next2 string) error {
	if err := a.Gate.RequireUnlocked(); err != nil {
		return err
	}
	if err := a.Gate.ChangePassword(current, next1, next2); err != nil {
		return err
	}
	a.notifier.Notify("Password updated", SeveritySuccess)
	return nil
}

// RevealMedia returns the photo collection, newest first
func (a *App) RevealMedia() ([]storage.MediaRecord, error) {
	return a.Media.Reveal()
}

// HideMedia collapses the media section
func (a *App) HideMedia() {
	a.Media.Hide()
}

// UploadMedia queues the files and uploads them in one batch
func (a *App) UploadMedia(ctx context.Context, files []QueuedFile) (*UploadResult, error) {
	if err := a.Gate.RequireUnlocked(); err != nil {
		return nil, err
	}
	a.Media.Queue(files)
	result, err := a.Media.Upload(ctx)
	if err != nil {
		return nil, err
	}
	if len(result.Added) > 0 {
		a.notifier.Notify("Uploaded to Hidden Media", SeveritySuccess)
	}
	for _, fe := range result.Errors {
		a.notifier.Notify("Could not add "+fe.Name, SeverityError)
	}
	return result, nil
}

// OpenMedia returns a single photo
func (a *App) OpenMedia(id string) (storage.MediaRecord, error) {
	return a.Media.Open(id)
}

// RevealText returns the note collection, newest first
func (a *App) RevealText() ([]storage.TextRecord, error) {
	return a.Text.Reveal()
}

// HideText collapses the text section
func (a *App) HideText() {
	a.Text.Hide()
}

// SaveText stores a note
func (a *App) SaveText(title, link, body string) (storage.TextRecord, error) {
	rec, err := a.Text.Save(title, link, body)
	if err != nil {
		return rec, err
	}
	a.notifier.Notify("Text saved to Hidden", SeveritySuccess)
	return rec, nil
}

// DeleteText removes a note
func (a *App) DeleteText(id string) error {
	if err := a.Text.Delete(id); err != nil {
		return err
	}
	a.notifier.Notify("Deleted", SeverityInfo)
	return nil
}

// ViewText returns a single note
func (a *App) ViewText(id string) (storage.TextRecord, error) {
	return a.Text.View(id)
}

// CopyText places a note on the clipboard
func (a *App) CopyText(ctx context.Context, id string) error {
	if err := a.Text.Copy(ctx, id); err != nil {
		a.notifier.Notify("Copy failed", SeverityError)
		return err
	}
	a.notifier.Notify("Copied", SeveritySuccess)
	return nil
}

// ResetAll wipes everything and locks the session
func (a *App) ResetAll() error {
	if err := a.Gate.RequireUnlocked(); err != nil {
		return err
	}
	if err := a.Gate.Reset(); err != nil {
		return err
	}
	a.notifier.Notify("All data wiped", SeveritySuccess)
	return nil
}

// StatusInfo summarizes the vault without revealing content
type StatusInfo struct {
	MediaCount    int
	TextCount     int
	Modified      time.Time
	Unlocked      bool
	MediaUnlocked bool
	TextUnlocked  bool
}

// Status works while locked
func (a *App) Status() (*StatusInfo, error) {
	media, err := a.Media.Count()
	if err != nil {
		return nil, err
	}
	text, err := a.Text.Count()
	if err != nil {
		return nil, err
	}

	s := a.Session()
	info := &StatusInfo{
		MediaCount:    media,
		TextCount:     text,
		Unlocked:      s.Unlocked(),
		MediaUnlocked: s.SectionUnlocked(SectionMedia),
		TextUnlocked:  s.SectionUnlocked(SectionText),
	}

	if m, ok := a.store.(interface{ GetModified() (time.Time, error) }); ok {
		// Not critical
		if modified, err := m.GetModified(); err == nil {
			info.Modified = modified
		}
	}
	return info, nil
}
