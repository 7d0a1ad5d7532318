package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/illarion/vaultpad/internal/storage"
)

// memStore is an in-memory Store
type memStore struct {
	credential string
	media      []storage.MediaRecord
	text       []storage.TextRecord

	mediaWrites int
	textWrites  int
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) GetCredential() (string, error) {
	if m.credential == "" {
		return storage.DefaultCredential, nil
	}
	return m.credential, nil
}

func (m *memStore) SetCredential(v string) error {
	m.credential = v
	return nil
}

func (m *memStore) ReadMedia() ([]storage.MediaRecord, error) {
	return append([]storage.MediaRecord{}, m.media...), nil
}

func (m *memStore) WriteMedia(list []storage.MediaRecord) error {
	m.mediaWrites++
	m.media = append([]storage.MediaRecord{}, list...)
	return nil
}

func (m *memStore) ReadText() ([]storage.TextRecord, error) {
	return append([]storage.TextRecord{}, m.text...), nil
}

func (m *memStore) WriteText(list []storage.TextRecord) error {
	m.textWrites++
	m.text = append([]storage.TextRecord{}, list...)
	return nil
}

func (m *memStore) WipeAll() error {
	m.credential = ""
	m.media = nil
	m.text = nil
	return nil
}

// fakeEncoder returns "data:<path>" and fails for paths listed in fail
type fakeEncoder struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls []string
	block chan struct{}
}

func (f *fakeEncoder) Encode(ctx context.Context, path string, quality float64, maxDimension int) (string, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()
	if quality != ImageQuality || maxDimension != MaxImageDimension {
		return "", fmt.Errorf("unexpected parameters %v %d", quality, maxDimension)
	}
	if f.fail[path] {
		return "", errors.New("cannot decode")
	}
	return "data:" + path, nil
}

// fakeClipboard records the last write
type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(_ context.Context, text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

// sequentialIDs yields prefix_1, prefix_2, ...
func sequentialIDs() IDFunc {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
}

// recorder collects notifications
type recorder struct {
	messages []string
}

func (r *recorder) Notify(message string, severity Severity) {
	r.messages = append(r.messages, severity.String()+":"+message)
}

func (r *recorder) has(s string) bool {
	for _, m := range r.messages {
		if strings.HasSuffix(m, ":"+s) {
			return true
		}
	}
	return false
}

var testTime = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*App, *memStore, *recorder) {
	t.Helper()
	store := newMemStore()
	rec := &recorder{}
	app := New(store,
		WithNotifier(rec),
		WithEncoder(&fakeEncoder{}),
		WithClipboard(&fakeClipboard{}),
		WithClock(fixedClock{now: testTime}),
		WithIDs(sequentialIDs()),
	)
	return app, store, rec
}

func unlockedApp(t *testing.T) (*App, *memStore, *recorder) {
	t.Helper()
	app, store, rec := newTestApp(t)
	if err := app.Unlock(storage.DefaultCredential); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	return app, store, rec
}
